package schema

import "fmt"

// Field описывает один атрибут запроса. Объявления неизменяемы и
// разделяются всеми экземплярами схемы.
type Field struct {
	Name     string
	Required bool
	Nullable bool
	Rule     Rule
}

// Schema — упорядоченный набор объявлений полей плюс необязательная
// межполевая проверка.
type Schema struct {
	Name   string
	Fields []Field
	// Check выполняется после пополевой валидации над уже связанным Instance.
	Check func(*Instance) error
}

// fieldValue хранит связанное значение; null означает явный null в запросе.
type fieldValue struct {
	value any
	null  bool
}

// Instance — результат связывания сырого JSON-объекта со схемой.
// Каждое поле находится в одном из трёх состояний: отсутствует,
// передан явный null, передано значение.
type Instance struct {
	values map[string]fieldValue
	order  []string
}

// Presented сообщает, было ли поле передано в запросе.
// Явный null считается переданным.
func (i *Instance) Presented(name string) bool {
	_, ok := i.values[name]
	return ok
}

// Value возвращает связанное значение поля; ok == false, если поле
// отсутствует или передан null.
func (i *Instance) Value(name string) (any, bool) {
	fv, ok := i.values[name]
	if !ok || fv.null {
		return nil, false
	}
	return fv.value, true
}

// PresentedFields возвращает имена переданных полей в порядке связывания.
func (i *Instance) PresentedFields() []string {
	return i.order
}

// Bind связывает сырой JSON-объект со схемой. Отсутствующее поле
// пропускается (обязательность проверяет Validate), явный null против
// non-nullable поля — немедленная ошибка, иначе значение проходит
// правило поля и сохраняется.
func (s *Schema) Bind(raw map[string]any) (*Instance, error) {
	inst := &Instance{values: make(map[string]fieldValue, len(s.Fields))}
	for _, f := range s.Fields {
		value, ok := raw[f.Name]
		if !ok {
			continue
		}
		if value == nil {
			if !f.Nullable {
				return nil, fmt.Errorf("%s: got null for non-nullable field %s: %w", s.Name, f.Name, ErrValueInvalid)
			}
			inst.values[f.Name] = fieldValue{null: true}
			inst.order = append(inst.order, f.Name)
			continue
		}
		if err := f.Rule(value); err != nil {
			return nil, fmt.Errorf("%s: field %s: %w", s.Name, f.Name, err)
		}
		inst.values[f.Name] = fieldValue{value: value}
		inst.order = append(inst.order, f.Name)
	}
	return inst, nil
}

// Validate проверяет required/nullable-инварианты каждого поля и затем
// межполевое правило схемы. Валидация атомарна: первая ошибка прерывает её.
func (s *Schema) Validate(inst *Instance) error {
	for _, f := range s.Fields {
		fv, ok := inst.values[f.Name]
		if !ok {
			if f.Required {
				return fmt.Errorf("%s: %s: %w", s.Name, f.Name, ErrMissingRequired)
			}
			continue
		}
		if fv.null && !f.Nullable {
			return fmt.Errorf("%s: field %s cannot be null: %w", s.Name, f.Name, ErrValueInvalid)
		}
	}
	if s.Check != nil {
		return s.Check(inst)
	}
	return nil
}

// Parse — связывание и валидация одним вызовом.
func (s *Schema) Parse(raw map[string]any) (*Instance, error) {
	inst, err := s.Bind(raw)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(inst); err != nil {
		return nil, err
	}
	return inst, nil
}
