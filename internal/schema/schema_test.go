package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSchema() *Schema {
	return &Schema{
		Name: "TestRequest",
		Fields: []Field{
			{Name: "login", Required: true, Nullable: true, Rule: Text()},
			{Name: "method", Required: true, Nullable: false, Rule: Text()},
			{Name: "extra", Required: false, Nullable: true, Rule: Text()},
		},
	}
}

func TestBind_TracksThreeStates(t *testing.T) {
	s := newTestSchema()

	inst, err := s.Bind(map[string]any{
		"login":  nil,
		"method": "online_score",
	})
	require.NoError(t, err)

	// явный null — поле передано, значения нет
	assert.True(t, inst.Presented("login"))
	_, ok := inst.Value("login")
	assert.False(t, ok)

	// значение — поле передано и читается
	assert.True(t, inst.Presented("method"))
	v, ok := inst.Value("method")
	require.True(t, ok)
	assert.Equal(t, "online_score", v)

	// отсутствующее поле
	assert.False(t, inst.Presented("extra"))
	_, ok = inst.Value("extra")
	assert.False(t, ok)
}

func TestBind_NullForNonNullableField(t *testing.T) {
	s := newTestSchema()

	_, err := s.Bind(map[string]any{"method": nil})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValueInvalid)
	assert.Contains(t, err.Error(), "TestRequest")
	assert.Contains(t, err.Error(), "method")
}

func TestBind_RuleFailureNamesSchemaAndField(t *testing.T) {
	s := newTestSchema()

	_, err := s.Bind(map[string]any{"login": 42.0})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.Contains(t, err.Error(), "TestRequest")
	assert.Contains(t, err.Error(), "login")
}

func TestValidate_MissingRequiredNamesField(t *testing.T) {
	s := newTestSchema()

	inst, err := s.Bind(map[string]any{"method": "online_score"})
	require.NoError(t, err)

	err = s.Validate(inst)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingRequired)
	assert.Contains(t, err.Error(), "login")
}

func TestValidate_NullableAbsentNeverFails(t *testing.T) {
	s := newTestSchema()

	inst, err := s.Bind(map[string]any{
		"login":  "user",
		"method": "online_score",
	})
	require.NoError(t, err)
	assert.NoError(t, s.Validate(inst))
}

func TestPresentedFields_KeepsBindOrder(t *testing.T) {
	s := newTestSchema()

	inst, err := s.Bind(map[string]any{
		"extra":  nil,
		"login":  "user",
		"method": "online_score",
	})
	require.NoError(t, err)

	// порядок связывания определяется порядком объявления полей
	assert.Equal(t, []string{"login", "method", "extra"}, inst.PresentedFields())
}

func TestParse_CrossFieldCheckRunsAfterFields(t *testing.T) {
	called := false
	s := &Schema{
		Name: "TestRequest",
		Fields: []Field{
			{Name: "name", Required: true, Rule: Text()},
		},
		Check: func(_ *Instance) error {
			called = true
			return nil
		},
	}

	_, err := s.Parse(map[string]any{"name": "x"})
	require.NoError(t, err)
	assert.True(t, called)

	// при ошибке пополевой валидации межполевое правило не выполняется
	called = false
	_, err = s.Parse(map[string]any{})
	require.Error(t, err)
	assert.False(t, called)
}
