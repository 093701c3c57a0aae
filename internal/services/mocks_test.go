package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/tomtap1997/dashbord-tr/internal/dataprocessing"
	"github.com/tomtap1997/dashbord-tr/pkg/contracts/events"
)

// MockBroadcaster records dataset events
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(ctx context.Context, msgType events.MessageType, data interface{}) {
	m.Called(msgType, data)
}

// MockSheetsFetcher stands in for the Google Sheets client
type MockSheetsFetcher struct {
	mock.Mock
}

func (m *MockSheetsFetcher) Fetch(ctx context.Context, spreadsheetID, readRange string) (dataprocessing.Workbook, string, error) {
	args := m.Called(spreadsheetID, readRange)
	return args.Get(0).(dataprocessing.Workbook), args.String(1), args.Error(2)
}

// MockHub reports fixed hub statistics
type MockHub struct {
	mock.Mock
}

func (m *MockHub) ClientCount() int {
	return m.Called().Int(0)
}

func (m *MockHub) Stats() map[string]interface{} {
	return m.Called().Get(0).(map[string]interface{})
}
