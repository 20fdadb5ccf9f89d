package schema

import "time"

// Entity is an instance of one of the registered entity types. Struct fields
// are pointers; nil means NULL in the store and an absent cell in a file.
type Entity interface {
	EntityType() *EntityType
}

type Position struct {
	Position         *string `db:"должность"`
	Responsibilities *string `db:"обязанности"`
}

type Topic struct {
	Topic            *string `db:"тематика"`
	ExpectedAudience *string `db:"ожидаемая_аудитория"`
}

type Employee struct {
	ID        *int64     `db:"id"`
	FullName  *string    `db:"фио"`
	Email     *string    `db:"email"`
	Phone     *string    `db:"телефон"`
	HireDate  *time.Time `db:"дата_найма"`
	Position  *string    `db:"должность"`
	Dismissed *bool      `db:"уволен"`
}

type Team struct {
	ID         *int64 `db:"id"`
	TeamLeader *int64 `db:"лидер_команды"`
}

type Project struct {
	Contract    *int64  `db:"договор"`
	Name        *string `db:"название"`
	Description *string `db:"описание"`
	ProjectTeam *int64  `db:"проектная_команда"`
	Topic       *string `db:"тематика"`
	Client      *int64  `db:"клиент"`
}

// TeamParticipation is keyed by (Employee, Team).
type TeamParticipation struct {
	LastUpdate *time.Time `db:"последнее_обновление"`
	Active     *bool      `db:"активен"`
	Employee   *int64     `db:"сотрудник"`
	Team       *int64     `db:"команда"`
}

type Service struct {
	ID                 *int64     `db:"id"`
	ProcessingEmployee *int64     `db:"обрабатывающий_сотрудник"`
	ApplicationDate    *time.Time `db:"дата_обращения"`
	Payment            *int64     `db:"оплата"`
	Project            *int64     `db:"проект"` // references Project.Contract
	ImplementingTeam   *int64     `db:"реализующая_команда"`
	Completed          *bool      `db:"выполнена"`
}

type Client struct {
	ID            *int64  `db:"id"`
	ContactPerson *string `db:"контактное_лицо"`
	Phone         *string `db:"телефон"`
	Email         *string `db:"email"`
}

type Payment struct {
	ID     *int64   `db:"id"`
	Amount *float64 `db:"сумма"`
	Paid   *bool    `db:"оплачено"`
}

type Contract struct {
	ID                     *int64     `db:"id"`
	SigningDate            *time.Time `db:"дата_подписания"`
	ImplementationDeadline *time.Time `db:"срок_реализации"`
	ProcessingEmployee     *int64     `db:"обрабатывающий_сотрудник"`
	Client                 *int64     `db:"клиент"`
	Payment                *int64     `db:"оплата"`
}

func (*Position) EntityType() *EntityType          { return PositionType }
func (*Topic) EntityType() *EntityType             { return TopicType }
func (*Employee) EntityType() *EntityType          { return EmployeeType }
func (*Team) EntityType() *EntityType              { return TeamType }
func (*Project) EntityType() *EntityType           { return ProjectType }
func (*TeamParticipation) EntityType() *EntityType { return TeamParticipationType }
func (*Service) EntityType() *EntityType           { return ServiceType }
func (*Client) EntityType() *EntityType            { return ClientType }
func (*Payment) EntityType() *EntityType           { return PaymentType }
func (*Contract) EntityType() *EntityType          { return ContractType }
