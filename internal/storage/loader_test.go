package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/VikaRzyankina/CorpIS/internal/schema"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Begin(ctx context.Context) (UnitOfWork, error) {
	args := m.Called(ctx)
	uow, _ := args.Get(0).(UnitOfWork)
	return uow, args.Error(1)
}

func (m *mockStore) EnsureSchema(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *mockStore) Close() error                           { return m.Called().Error(0) }

type mockUoW struct{ mock.Mock }

func (m *mockUoW) Create(ctx context.Context, e schema.Entity) error {
	return m.Called(ctx, e).Error(0)
}

func (m *mockUoW) FetchAll(ctx context.Context, et *schema.EntityType) ([]schema.Entity, error) {
	args := m.Called(ctx, et)
	out, _ := args.Get(0).([]schema.Entity)
	return out, args.Error(1)
}

func (m *mockUoW) FetchByID(ctx context.Context, et *schema.EntityType, key schema.Key) (schema.Entity, error) {
	args := m.Called(ctx, et, key)
	out, _ := args.Get(0).(schema.Entity)
	return out, args.Error(1)
}

func (m *mockUoW) Update(ctx context.Context, et *schema.EntityType, key schema.Key, fields map[string]any) (schema.Entity, error) {
	args := m.Called(ctx, et, key, fields)
	out, _ := args.Get(0).(schema.Entity)
	return out, args.Error(1)
}

func (m *mockUoW) Delete(ctx context.Context, et *schema.EntityType, key schema.Key) error {
	return m.Called(ctx, et, key).Error(0)
}

func (m *mockUoW) Commit() error   { return m.Called().Error(0) }
func (m *mockUoW) Rollback() error { return m.Called().Error(0) }

func amountIs(v float64) func(schema.Entity) bool {
	return func(e schema.Entity) bool {
		p, ok := e.(*schema.Payment)
		return ok && p.Amount != nil && *p.Amount == v
	}
}

func TestLoadIsolatesRejectedRows(t *testing.T) {
	ctx := context.Background()
	uow := &mockUoW{}
	st := &mockStore{}
	st.On("Begin", ctx).Return(uow, nil)

	uow.On("Create", ctx, mock.MatchedBy(amountIs(100))).Return(nil)
	uow.On("Create", ctx, mock.MatchedBy(amountIs(-1))).Return(errors.New("CHECK constraint failed"))
	uow.On("Create", ctx, mock.MatchedBy(amountIs(300))).Return(nil)
	uow.On("Commit").Return(nil)

	rows := []schema.Fields{
		{"amount": 100.0, "paid": true},
		{"amount": -1.0, "paid": true},
		{"amount": 300.0, "paid": false},
		{"amount": 5.0, "bogus": "x"},
	}
	out, err := Load(ctx, st, schema.PaymentType, rows)
	require.NoError(t, err)

	assert.Equal(t, 4, out.Total)
	assert.Equal(t, 2, out.Success)
	assert.Equal(t, 2, out.Failed)
	require.Len(t, out.Errors, 2)
	assert.Equal(t, "Row 2: CHECK constraint failed", out.Errors[0])
	assert.Contains(t, out.Errors[1], `Row 4: unknown field "bogus"`)

	uow.AssertNumberOfCalls(t, "Create", 3)
	uow.AssertCalled(t, "Commit")
	uow.AssertNotCalled(t, "Rollback")
}

func TestLoadRowsUsesOrdinals(t *testing.T) {
	ctx := context.Background()
	uow := &mockUoW{}
	st := &mockStore{}
	st.On("Begin", ctx).Return(uow, nil)
	uow.On("Create", ctx, mock.Anything).Return(errors.New("duplicate key")).Once()
	uow.On("Create", ctx, mock.Anything).Return(nil)
	uow.On("Commit").Return(nil)

	out, err := LoadRows(ctx, st, schema.PaymentType,
		[]schema.Fields{{"amount": 1.0, "paid": true}, {"amount": 2.0, "paid": true}},
		[]int{3, 5})
	require.NoError(t, err)
	assert.Equal(t, []string{"Row 3: duplicate key"}, out.Errors)
	assert.Equal(t, 1, out.Success)

	_, err = LoadRows(ctx, st, schema.PaymentType, []schema.Fields{{}}, []int{1, 2})
	assert.Error(t, err)
}

func TestLoadBeginFailure(t *testing.T) {
	ctx := context.Background()
	st := &mockStore{}
	st.On("Begin", ctx).Return(nil, errors.New("database is locked"))

	out, err := LoadRows(ctx, st, schema.PaymentType, []schema.Fields{{"amount": 1.0}, {"amount": 2.0}}, []int{2, 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is locked")
	assert.Equal(t, 2, out.Failed)
	assert.Equal(t, []string{"Row 2: begin: database is locked", "Row 4: begin: database is locked"}, out.Errors)
}

func TestLoadAttemptsEveryRowAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	uow := &mockUoW{}
	st := &mockStore{}
	st.On("Begin", ctx).Return(uow, nil)
	uow.On("Create", ctx, mock.Anything).Run(func(mock.Arguments) { cancel() }).Return(nil).Once()
	uow.On("Create", ctx, mock.Anything).Return(context.Canceled)
	uow.On("Commit").Return(nil)

	rows := []schema.Fields{
		{"amount": 1.0, "paid": true},
		{"amount": 2.0, "paid": true},
		{"amount": 3.0, "paid": true},
	}
	out, err := Load(ctx, st, schema.PaymentType, rows)
	require.NoError(t, err)

	uow.AssertNumberOfCalls(t, "Create", 3)
	assert.Equal(t, 1, out.Success)
	assert.Equal(t, 2, out.Failed)
	assert.Len(t, out.Errors, out.Failed)
	assert.Equal(t, "Row 2: context canceled", out.Errors[0])
}

func TestLoadCommitFailureFailsEveryRow(t *testing.T) {
	ctx := context.Background()
	uow := &mockUoW{}
	st := &mockStore{}
	st.On("Begin", ctx).Return(uow, nil)
	uow.On("Create", ctx, mock.Anything).Return(nil)
	uow.On("Commit").Return(errors.New("disk full"))

	out, err := Load(ctx, st, schema.PaymentType, []schema.Fields{{"amount": 1.0, "paid": true}, {"amount": 2.0, "paid": false}})
	require.Error(t, err)
	assert.Equal(t, Outcome{
		Total:  2,
		Failed: 2,
		Errors: []string{"Row 1: commit: disk full", "Row 2: commit: disk full"},
	}, out)
}

func TestLoadRejectionErrorType(t *testing.T) {
	err := Reject("Оплата", errors.New("boom"))
	var re *RejectionError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "Оплата", re.Table)
	assert.Same(t, err, Reject("Оплата", err))
	assert.NoError(t, Reject("Оплата", nil))
}

func TestWithUnitOfWorkRollsBack(t *testing.T) {
	ctx := context.Background()

	t.Run("error", func(t *testing.T) {
		uow := &mockUoW{}
		st := &mockStore{}
		st.On("Begin", ctx).Return(uow, nil)
		uow.On("Rollback").Return(nil)

		want := errors.New("stop")
		err := WithUnitOfWork(ctx, st, func(UnitOfWork) error { return want })
		assert.ErrorIs(t, err, want)
		uow.AssertNotCalled(t, "Commit")
		uow.AssertCalled(t, "Rollback")
	})

	t.Run("panic", func(t *testing.T) {
		uow := &mockUoW{}
		st := &mockStore{}
		st.On("Begin", ctx).Return(uow, nil)
		uow.On("Rollback").Return(nil)

		assert.Panics(t, func() {
			_ = WithUnitOfWork(ctx, st, func(UnitOfWork) error { panic("boom") })
		})
		uow.AssertCalled(t, "Rollback")
	})
}
