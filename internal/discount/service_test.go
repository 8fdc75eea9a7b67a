package discount

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/packfinderz-storefront/internal/backend"
	pkgerrors "github.com/angelmondragon/packfinderz-storefront/pkg/errors"
)

type fakeDiscountAPI struct {
	calls      int
	validateFn func(ctx context.Context, email, code string) (*backend.DiscountResponse, error)
}

func (f *fakeDiscountAPI) ValidateDiscount(ctx context.Context, email, code string) (*backend.DiscountResponse, error) {
	f.calls++
	return f.validateFn(ctx, email, code)
}

func percent(v int) *int { return &v }

func TestValidateDefaultsToTenPercent(t *testing.T) {
	api := &fakeDiscountAPI{validateFn: func(_ context.Context, email, code string) (*backend.DiscountResponse, error) {
		assert.Equal(t, "ayesha@example.com", email)
		assert.Equal(t, "WELCOME10", code)
		return &backend.DiscountResponse{Valid: true}, nil
	}}
	svc, err := NewService(api, 0)
	require.NoError(t, err)

	res, err := svc.Validate(context.Background(), " Ayesha@Example.com ", " WELCOME10 ")
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "0.1", res.Rate.String())
	assert.True(t, res.Matches("ayesha@example.com", "WELCOME10"))
	assert.False(t, res.Matches("ayesha@example.com", "OTHER"))
}

func TestValidateUsesBackendPercent(t *testing.T) {
	api := &fakeDiscountAPI{validateFn: func(context.Context, string, string) (*backend.DiscountResponse, error) {
		return &backend.DiscountResponse{Valid: true, Message: "Discount applied", DiscountPercent: percent(25)}, nil
	}}
	svc, err := NewService(api, 10)
	require.NoError(t, err)

	res, err := svc.Validate(context.Background(), "a@b.co", "SPRING")
	require.NoError(t, err)
	assert.Equal(t, "0.25", res.Rate.String())
	assert.Equal(t, "Discount applied", res.Message)
}

func TestValidateRejectedCode(t *testing.T) {
	api := &fakeDiscountAPI{validateFn: func(context.Context, string, string) (*backend.DiscountResponse, error) {
		return &backend.DiscountResponse{Valid: false, Message: "Code already used"}, nil
	}}
	svc, err := NewService(api, 10)
	require.NoError(t, err)

	res, err := svc.Validate(context.Background(), "a@b.co", "USED")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.True(t, res.Rate.IsZero())
	assert.Equal(t, "Code already used", res.Message)
}

func TestValidateSkipsBackendWithoutInputs(t *testing.T) {
	api := &fakeDiscountAPI{}
	svc, err := NewService(api, 10)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), "", "CODE")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Zero(t, api.calls)
}

func TestValidatePropagatesBackendFailure(t *testing.T) {
	api := &fakeDiscountAPI{validateFn: func(context.Context, string, string) (*backend.DiscountResponse, error) {
		return nil, pkgerrors.New(pkgerrors.CodeNetwork, "could not reach the server")
	}}
	svc, err := NewService(api, 10)
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), "a@b.co", "CODE")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNetwork, pkgerrors.As(err).Code())
}
