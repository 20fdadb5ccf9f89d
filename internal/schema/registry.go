package schema

import (
	"sort"
	"strings"
)

func ref(table, column string) *Reference { return &Reference{Table: table, Column: column} }

var (
	PositionType = newType(Position{}, "Position", "должности", "Должности",
		[]string{"должность", "обязанности"},
		[]Column{
			{Name: "должность", Field: "position", Type: TypeString, Size: 32, PrimaryKey: true, NotNull: true},
			{Name: "обязанности", Field: "responsibilities", Type: TypeString, Size: 256, NotNull: true},
		})

	TopicType = newType(Topic{}, "Topic", "тематики", "Тематики",
		[]string{"тематика", "ожидаемая_аудитория"},
		[]Column{
			{Name: "тематика", Field: "topic", Type: TypeString, Size: 32, PrimaryKey: true, NotNull: true},
			{Name: "ожидаемая_аудитория", Field: "expected_audience", Type: TypeString, Size: 256, NotNull: true},
		})

	EmployeeType = newType(Employee{}, "Employee", "сотрудники", "Сотрудники",
		[]string{"фио", "дата_найма"},
		[]Column{
			{Name: "id", Field: "id", Type: TypeInt, PrimaryKey: true, AutoIncrement: true, NotNull: true},
			{Name: "фио", Field: "full_name", Type: TypeString, Size: 64, NotNull: true},
			{Name: "email", Field: "email", Type: TypeString, Size: 32, NotNull: true},
			{Name: "телефон", Field: "phone", Type: TypeString, Size: 11, NotNull: true},
			{Name: "дата_найма", Field: "hire_date", Type: TypeDate, NotNull: true},
			{Name: "должность", Field: "position", Type: TypeString, Size: 32, NotNull: true, References: ref("должности", "должность")},
			{Name: "уволен", Field: "dismissed", Type: TypeBool, NotNull: true},
		})

	TeamType = newType(Team{}, "Team", "команды", "Команды",
		[]string{"лидер_команды"},
		[]Column{
			{Name: "id", Field: "id", Type: TypeInt, PrimaryKey: true, AutoIncrement: true, NotNull: true},
			{Name: "лидер_команды", Field: "team_leader", Type: TypeInt, NotNull: true, References: ref("сотрудники", "id")},
		})

	// Project has no "проект" column, so it is recognised by name + client.
	ProjectType = newType(Project{}, "Project", "проект", "Проект",
		[]string{"название", "клиент"},
		[]Column{
			{Name: "договор", Field: "contract", Type: TypeInt, Unique: true, References: ref("договор", "id")},
			{Name: "название", Field: "name", Type: TypeString, Size: 32, PrimaryKey: true, NotNull: true},
			{Name: "описание", Field: "description", Type: TypeString, Size: 256},
			{Name: "проектная_команда", Field: "project_team", Type: TypeInt, References: ref("команды", "id")},
			{Name: "тематика", Field: "topic", Type: TypeString, Size: 32, References: ref("тематики", "тематика")},
			{Name: "клиент", Field: "client", Type: TypeInt, NotNull: true, References: ref("клиент", "id")},
		})

	TeamParticipationType = newType(TeamParticipation{}, "TeamParticipation", "участие_в_команде", "Участие_в_команде",
		[]string{"сотрудник", "команда", "активен"},
		[]Column{
			{Name: "последнее_обновление", Field: "last_update", Type: TypeTimestamp, NotNull: true},
			{Name: "активен", Field: "active", Type: TypeBool, NotNull: true},
			{Name: "сотрудник", Field: "employee", Type: TypeInt, PrimaryKey: true, NotNull: true, References: ref("сотрудники", "id")},
			{Name: "команда", Field: "team", Type: TypeInt, PrimaryKey: true, NotNull: true, References: ref("команды", "id")},
		})

	ServiceType = newType(Service{}, "Service", "услуга", "Услуга",
		[]string{"дата_обращения", "выполнена"},
		[]Column{
			{Name: "id", Field: "id", Type: TypeInt, PrimaryKey: true, AutoIncrement: true, NotNull: true},
			{Name: "обрабатывающий_сотрудник", Field: "processing_employee", Type: TypeInt, NotNull: true, References: ref("сотрудники", "id")},
			{Name: "дата_обращения", Field: "application_date", Type: TypeDate, NotNull: true},
			{Name: "оплата", Field: "payment", Type: TypeInt, NotNull: true, References: ref("оплата", "id")},
			{Name: "проект", Field: "project", Type: TypeInt, NotNull: true, References: ref("проект", "договор")},
			{Name: "реализующая_команда", Field: "implementing_team", Type: TypeInt, NotNull: true, References: ref("команды", "id")},
			{Name: "выполнена", Field: "completed", Type: TypeBool, NotNull: true},
		})

	ClientType = newType(Client{}, "Client", "клиент", "Клиент",
		[]string{"контактное_лицо"},
		[]Column{
			{Name: "id", Field: "id", Type: TypeInt, PrimaryKey: true, AutoIncrement: true, NotNull: true},
			{Name: "контактное_лицо", Field: "contact_person", Type: TypeString, Size: 64, NotNull: true},
			{Name: "телефон", Field: "phone", Type: TypeString, Size: 11, NotNull: true},
			{Name: "email", Field: "email", Type: TypeString, Size: 32, NotNull: true},
		})

	PaymentType = newType(Payment{}, "Payment", "оплата", "Оплата",
		[]string{"сумма", "оплачено"},
		[]Column{
			{Name: "id", Field: "id", Type: TypeInt, PrimaryKey: true, AutoIncrement: true, NotNull: true},
			{Name: "сумма", Field: "amount", Type: TypeAmount, NotNull: true},
			{Name: "оплачено", Field: "paid", Type: TypeBool, NotNull: true},
		})

	ContractType = newType(Contract{}, "Contract", "договор", "Договор",
		[]string{"дата_подписания", "срок_реализации"},
		[]Column{
			{Name: "id", Field: "id", Type: TypeInt, PrimaryKey: true, AutoIncrement: true, NotNull: true},
			{Name: "дата_подписания", Field: "signing_date", Type: TypeDate, NotNull: true},
			{Name: "срок_реализации", Field: "implementation_deadline", Type: TypeDate},
			{Name: "обрабатывающий_сотрудник", Field: "processing_employee", Type: TypeInt, NotNull: true, References: ref("сотрудники", "id")},
			{Name: "клиент", Field: "client", Type: TypeInt, NotNull: true, References: ref("клиент", "id")},
			{Name: "оплата", Field: "payment", Type: TypeInt, NotNull: true, References: ref("оплата", "id")},
		})
)

// registry is in detection order.
var registry = []*EntityType{
	PositionType,
	TopicType,
	EmployeeType,
	TeamType,
	ProjectType,
	TeamParticipationType,
	ServiceType,
	ClientType,
	PaymentType,
	ContractType,
}

var (
	byTable    = indexTypes(registry)
	vocabulary = buildVocabulary(registry)
	creation   = creationOrder(registry)
)

// All returns every registered type in detection order.
func All() []*EntityType {
	return append([]*EntityType(nil), registry...)
}

// Tables returns the registry keys sorted alphabetically.
func Tables() []string {
	out := make([]string, 0, len(registry))
	for _, t := range registry {
		out = append(out, t.Table)
	}
	sort.Strings(out)
	return out
}

// Lookup resolves a table key, store label or Go name (case-insensitive).
func Lookup(name string) (*EntityType, error) {
	key := Normalize(name)
	if t, ok := byTable[key]; ok {
		return t, nil
	}
	return nil, &UnknownEntityTypeError{Name: name, Known: Tables()}
}

// FieldFor maps a normalised raw column name onto its canonical field name
// using the vocabulary shared by all entity types.
func FieldFor(column string) (string, bool) {
	f, ok := vocabulary[column]
	return f, ok
}

// CreationOrder returns the types ordered so that every foreign key target
// precedes the tables referencing it.
func CreationOrder() []*EntityType {
	return append([]*EntityType(nil), creation...)
}

func indexTypes(types []*EntityType) map[string]*EntityType {
	m := make(map[string]*EntityType, 3*len(types))
	for _, t := range types {
		m[t.Table] = t
		m[strings.ToLower(t.Label)] = t
		m[strings.ToLower(t.Name)] = t
	}
	return m
}

// buildVocabulary merges the column tables of all types. Shared raw names
// map to the same field everywhere; a conflict panics at init.
func buildVocabulary(types []*EntityType) map[string]string {
	v := make(map[string]string)
	for _, t := range types {
		for _, c := range t.Columns {
			name := strings.ToLower(c.Name)
			if prev, ok := v[name]; ok && prev != c.Field {
				panic("schema: column " + name + " maps to both " + prev + " and " + c.Field)
			}
			v[name] = c.Field
		}
	}
	return v
}

func creationOrder(types []*EntityType) []*EntityType {
	var (
		out     = make([]*EntityType, 0, len(types))
		visited = make(map[*EntityType]bool, len(types))
		visit   func(t *EntityType)
	)
	visit = func(t *EntityType) {
		if visited[t] {
			return
		}
		visited[t] = true
		for _, c := range t.Columns {
			if c.References == nil {
				continue
			}
			if dep := byTableKey(types, c.References.Table); dep != nil && dep != t {
				visit(dep)
			}
		}
		out = append(out, t)
	}
	for _, t := range types {
		visit(t)
	}
	return out
}

func byTableKey(types []*EntityType, key string) *EntityType {
	for _, t := range types {
		if t.Table == key {
			return t
		}
	}
	return nil
}
