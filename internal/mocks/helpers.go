package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// NewMockComplianceClientForTest creates a new mock ComplianceClientInterface for testing
func NewMockComplianceClientForTest(t *testing.T) *MockComplianceClientInterface {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockComplianceClientInterface(ctrl)
}

// NewMockOrderRepositoryForTest creates a new mock order Repository for testing
func NewMockOrderRepositoryForTest(t *testing.T) *MockOrderRepository {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockOrderRepository(ctrl)
}

// NewMockAddressCacheForTest creates a new mock address cache Repository for testing
func NewMockAddressCacheForTest(t *testing.T) *MockAddressCacheRepository {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockAddressCacheRepository(ctrl)
}
