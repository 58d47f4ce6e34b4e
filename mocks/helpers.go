package mocks

import (
	"testing"

	"go.uber.org/mock/gomock"
)

// Test helpers that hide the controller boilerplate. Each returns a mock
// whose expectations are verified automatically when the test finishes.

func NewGovernorForTest(t *testing.T) *MockGovernor {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockGovernor(ctrl)
}

func NewChainReaderForTest(t *testing.T) *MockChainReader {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockChainReader(ctrl)
}

func NewRuleHookForTest(t *testing.T) *MockRuleHook {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockRuleHook(ctrl)
}

func NewHookResolverForTest(t *testing.T) *MockHookResolver {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockHookResolver(ctrl)
}

func NewRefundPoolForTest(t *testing.T) *MockRefundPool {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockRefundPool(ctrl)
}

func NewGasGaugeForTest(t *testing.T) *MockGasGauge {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockGasGauge(ctrl)
}

func NewClockForTest(t *testing.T) *MockClock {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockClock(ctrl)
}

func NewDeployerForTest(t *testing.T) *MockDeployer {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockDeployer(ctrl)
}

func NewReverseRegistrarForTest(t *testing.T) *MockReverseRegistrar {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	return NewMockReverseRegistrar(ctrl)
}
