package schema

import (
	"fmt"
	"strconv"
	"time"
)

// AdminLogin — логин, дающий административный доступ.
const AdminLogin = "admin"

// MaxBirthdayAge — предельный возраст для поля birthday в профиле скоринга.
const MaxBirthdayAge = 70

// MethodSchema описывает внешний конверт запроса.
var MethodSchema = &Schema{
	Name: "MethodRequest",
	Fields: []Field{
		{Name: "account", Required: false, Nullable: true, Rule: Text()},
		{Name: "login", Required: true, Nullable: true, Rule: Text()},
		{Name: "token", Required: true, Nullable: true, Rule: Text()},
		{Name: "arguments", Required: true, Nullable: true, Rule: Arguments()},
		{Name: "method", Required: true, Nullable: false, Rule: Text()},
	},
}

// scorePairs — допустимые комбинации полей: хотя бы одна пара должна быть
// передана целиком. Явный null тоже считается переданным полем.
var scorePairs = [][2]string{
	{"phone", "email"},
	{"first_name", "last_name"},
	{"birthday", "gender"},
}

// OnlineScoreSchema описывает аргументы метода online_score.
var OnlineScoreSchema = &Schema{
	Name: "OnlineScoreRequest",
	Fields: []Field{
		{Name: "first_name", Nullable: true, Rule: Text()},
		{Name: "last_name", Nullable: true, Rule: Text()},
		{Name: "email", Nullable: true, Rule: Email()},
		{Name: "phone", Nullable: true, Rule: Phone()},
		{Name: "birthday", Nullable: true, Rule: Birthday(MaxBirthdayAge)},
		{Name: "gender", Nullable: true, Rule: Gender()},
	},
	Check: checkScorePairs,
}

// ClientsInterestsSchema описывает аргументы метода clients_interests.
var ClientsInterestsSchema = &Schema{
	Name: "ClientsInterestsRequest",
	Fields: []Field{
		{Name: "client_ids", Required: true, Rule: ClientIDs(1)},
		{Name: "date", Nullable: true, Rule: Date()},
	},
}

func checkScorePairs(inst *Instance) error {
	for _, pair := range scorePairs {
		if inst.Presented(pair[0]) && inst.Presented(pair[1]) {
			return nil
		}
	}
	return fmt.Errorf("OnlineScoreRequest: expected one of field pairs %v to be presented: %w", scorePairs, ErrValueInvalid)
}

// MethodRequest — типизированный внешний конверт запроса.
type MethodRequest struct {
	Account   string
	Login     string
	Token     string
	Method    string
	Arguments map[string]any
}

// IsAdmin сообщает, выполняется ли запрос от имени администратора.
func (r *MethodRequest) IsAdmin() bool {
	return r.Login == AdminLogin
}

// ParseMethodRequest связывает и валидирует конверт запроса.
func ParseMethodRequest(raw map[string]any) (*MethodRequest, error) {
	inst, err := MethodSchema.Parse(raw)
	if err != nil {
		return nil, err
	}
	req := &MethodRequest{}
	if v, ok := inst.Value("account"); ok {
		req.Account = v.(string)
	}
	if v, ok := inst.Value("login"); ok {
		req.Login = v.(string)
	}
	if v, ok := inst.Value("token"); ok {
		req.Token = v.(string)
	}
	if v, ok := inst.Value("method"); ok {
		req.Method = v.(string)
	}
	if v, ok := inst.Value("arguments"); ok {
		req.Arguments = v.(map[string]any)
	}
	return req, nil
}

// OnlineScoreRequest — аргументы метода online_score. nil-указатель означает,
// что значения нет: поле отсутствует либо передан явный null.
type OnlineScoreRequest struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Birthday  *time.Time
	Gender    *int

	presented []string
}

// PresentedFields возвращает имена переданных полей в порядке связывания.
func (r *OnlineScoreRequest) PresentedFields() []string {
	return r.presented
}

// ParseOnlineScoreRequest связывает и валидирует аргументы online_score.
func ParseOnlineScoreRequest(raw map[string]any) (*OnlineScoreRequest, error) {
	inst, err := OnlineScoreSchema.Parse(raw)
	if err != nil {
		return nil, err
	}
	req := &OnlineScoreRequest{presented: inst.PresentedFields()}
	if v, ok := inst.Value("first_name"); ok {
		s := v.(string)
		req.FirstName = &s
	}
	if v, ok := inst.Value("last_name"); ok {
		s := v.(string)
		req.LastName = &s
	}
	if v, ok := inst.Value("email"); ok {
		s := v.(string)
		req.Email = &s
	}
	if v, ok := inst.Value("phone"); ok {
		s := phoneString(v)
		req.Phone = &s
	}
	if v, ok := inst.Value("birthday"); ok {
		bd, err := ParseDate(v.(string))
		if err != nil {
			return nil, err
		}
		req.Birthday = &bd
	}
	if v, ok := inst.Value("gender"); ok {
		g := int(v.(float64))
		req.Gender = &g
	}
	return req, nil
}

// phoneString нормализует телефон к строке независимо от JSON-типа значения.
func phoneString(v any) string {
	switch p := v.(type) {
	case string:
		return p
	case float64:
		return strconv.FormatInt(int64(p), 10)
	}
	return fmt.Sprint(v)
}

// ClientsInterestsRequest — типизированные аргументы метода clients_interests.
type ClientsInterestsRequest struct {
	ClientIDs []int64
	Date      *time.Time
}

// ParseClientsInterestsRequest связывает и валидирует аргументы clients_interests.
func ParseClientsInterestsRequest(raw map[string]any) (*ClientsInterestsRequest, error) {
	inst, err := ClientsInterestsSchema.Parse(raw)
	if err != nil {
		return nil, err
	}
	req := &ClientsInterestsRequest{}
	if v, ok := inst.Value("client_ids"); ok {
		items := v.([]any)
		req.ClientIDs = make([]int64, 0, len(items))
		for _, item := range items {
			req.ClientIDs = append(req.ClientIDs, int64(item.(float64)))
		}
	}
	if v, ok := inst.Value("date"); ok {
		d, err := ParseDate(v.(string))
		if err != nil {
			return nil, err
		}
		req.Date = &d
	}
	return req, nil
}
