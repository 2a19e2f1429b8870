package mockclickhousebatch

import (
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/stretchr/testify/mock"
)

// Batch mocks driver.Batch for archive tests.
type Batch struct {
	mock.Mock
}

var _ driver.Batch = &Batch{}

func (m *Batch) Append(args ...any) error {
	callArgs := []any{}
	callArgs = append(callArgs, args...)
	return m.Called(callArgs...).Error(0)
}

func (m *Batch) Send() error {
	return m.Called().Error(0)
}

func (m *Batch) Abort() error {
	return m.Called().Error(0)
}

func (m *Batch) AppendStruct(v any) error {
	return m.Called(v).Error(0)
}

func (m *Batch) Column(id int) driver.BatchColumn {
	mockArgs := m.Called(id)
	if v := mockArgs.Get(0); v != nil {
		if column, ok := v.(driver.BatchColumn); ok {
			return column
		}
	}
	return nil
}

func (m *Batch) Flush() error {
	return m.Called().Error(0)
}

func (m *Batch) IsSent() bool {
	return m.Called().Bool(0)
}
