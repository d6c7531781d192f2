package negotiation

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/goods-gate/goods-gate/internal/domain/catalog"
	catalogmocks "github.com/goods-gate/goods-gate/internal/domain/catalog/mocks"
)

func TestPolicyDirectoryFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	directory := catalogmocks.NewMockDirectory(ctrl)
	p, err := NewPolicy(directory, "", zerolog.Nop())
	require.NoError(t, err)

	directory.EXPECT().IsSensitiveBrand(gomock.Any(), int64(7)).Return(true, nil)
	sensitive, err := p.Sensitive(context.Background(), &catalog.Product{Code: 363482, BrandID: 7})
	require.NoError(t, err)
	assert.True(t, sensitive)
}

func TestPolicyNoBrandIsNeverSensitive(t *testing.T) {
	ctrl := gomock.NewController(t)
	directory := catalogmocks.NewMockDirectory(ctrl)
	p, err := NewPolicy(directory, "", zerolog.Nop())
	require.NoError(t, err)

	sensitive, err := p.Sensitive(context.Background(), &catalog.Product{Code: 363482})
	require.NoError(t, err)
	assert.False(t, sensitive)
}

func TestPolicyRuleOverridesFlag(t *testing.T) {
	ctrl := gomock.NewController(t)
	directory := catalogmocks.NewMockDirectory(ctrl)
	p, err := NewPolicy(directory, "price > 1000", zerolog.Nop())
	require.NoError(t, err)

	sensitive, err := p.Sensitive(context.Background(), &catalog.Product{Code: 363482, BrandID: 7, Price: 1999.5})
	require.NoError(t, err)
	assert.True(t, sensitive, "rule decides without consulting the directory")

	sensitive, err = p.Sensitive(context.Background(), &catalog.Product{Code: 1, BrandID: 7, Price: 50})
	require.NoError(t, err)
	assert.False(t, sensitive)
}

func TestPolicyRuleFailureFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	directory := catalogmocks.NewMockDirectory(ctrl)

	// References a parameter that is never bound, so evaluation fails.
	p, err := NewPolicy(directory, "unknown_param > 1", zerolog.Nop())
	require.NoError(t, err)

	directory.EXPECT().IsSensitiveBrand(gomock.Any(), int64(7)).Return(false, nil)
	sensitive, err := p.Sensitive(context.Background(), &catalog.Product{Code: 363482, BrandID: 7})
	require.NoError(t, err)
	assert.False(t, sensitive)
}

func TestPolicyNonBooleanRuleFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	directory := catalogmocks.NewMockDirectory(ctrl)
	p, err := NewPolicy(directory, "price + 1", zerolog.Nop())
	require.NoError(t, err)

	directory.EXPECT().IsSensitiveBrand(gomock.Any(), int64(7)).Return(true, nil)
	sensitive, err := p.Sensitive(context.Background(), &catalog.Product{Code: 363482, BrandID: 7, Price: 10})
	require.NoError(t, err)
	assert.True(t, sensitive)
}

func TestPolicyRejectsBrokenRule(t *testing.T) {
	ctrl := gomock.NewController(t)
	directory := catalogmocks.NewMockDirectory(ctrl)
	_, err := NewPolicy(directory, "price >", zerolog.Nop())
	assert.Error(t, err)
}
