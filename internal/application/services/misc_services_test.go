package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPromoService_Validate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		api := &MockRequester{}
		api.On("Post", mock.Anything, "/promo/validate", map[string]any{"code": "GLOW20", "amount": 1500.0}).
			Return(`{"data":{"valid":true,"discount":300}}`, nil)

		res, err := NewPromoService(api).Validate(context.Background(), " glow20 ", 1500)

		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, "GLOW20", res.Code)
		assert.Equal(t, 300.0, res.Discount)
	})

	t.Run("RejectedCodeIsAResult", func(t *testing.T) {
		api := &MockRequester{}
		api.On("Post", mock.Anything, "/promo/validate", mock.Anything).Return(nil, apiError(400, "Promo code expired"))

		res, err := NewPromoService(api).Validate(context.Background(), "OLD10", 800)

		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, "Promo code expired", res.Message)
	})

	t.Run("ServerErrorIsAnError", func(t *testing.T) {
		api := &MockRequester{}
		api.On("Post", mock.Anything, "/promo/validate", mock.Anything).Return(nil, apiError(500, "HTTP 500: Internal Server Error"))

		_, err := NewPromoService(api).Validate(context.Background(), "GLOW20", 800)

		assert.ErrorContains(t, err, "failed to validate promo code")
	})

	t.Run("LocalValidation", func(t *testing.T) {
		api := &MockRequester{}
		svc := NewPromoService(api)

		_, err := svc.Validate(context.Background(), "  ", 100)
		assert.Error(t, err)
		_, err = svc.Validate(context.Background(), "GLOW20", 0)
		assert.Error(t, err)
		api.AssertNotCalled(t, "Post", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLoyaltyService(t *testing.T) {
	api := &MockRequester{}
	api.On("Get", mock.Anything, "/loyalty/points").Return(`{"data":{"points":250,"pointValue":0.5,"tier":"silver"}}`, nil)
	api.On("Get", mock.Anything, "/loyalty/history").
		Return(`{"data":[{"id":"t1","points":100,"type":"earned","bookingId":"b1","createdAt":"2026-09-01"}]}`, nil)
	api.On("Post", mock.Anything, "/loyalty/redeem", map[string]any{"points": 100, "bookingId": "b7"}).
		Return(`{"data":{"points":150,"pointValue":0.5}}`, nil)

	svc := NewLoyaltyService(api)
	ctx := context.Background()

	bal, err := svc.Balance(ctx)
	require.NoError(t, err)
	assert.Equal(t, 125.0, bal.RedeemableValue())

	hist, err := svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "earned", hist[0].Type)

	bal, err = svc.Redeem(ctx, 100, "b7")
	require.NoError(t, err)
	assert.Equal(t, 150, bal.Points)

	_, err = svc.Redeem(ctx, 0, "b7")
	assert.Error(t, err)
	_, err = svc.Redeem(ctx, 10, "")
	assert.Error(t, err)
	api.AssertNumberOfCalls(t, "Post", 1)
}

func TestGeoService(t *testing.T) {
	api := &MockRequester{}
	api.On("Get", mock.Anything, "/geocode?address=12+MG+Road%2C+Bengaluru").
		Return(`{"data":{"address":"12 MG Road, Bengaluru","lat":12.9756,"lng":77.6066,"serviceable":true}}`, nil)
	api.On("Get", mock.Anything, "/geocode/reverse?lat=12.9756&lng=77.6066").
		Return(`{"data":{"address":"MG Road","city":"Bengaluru","pincode":"560001","lat":12.9756,"lng":77.6066}}`, nil)

	svc := NewGeoService(api)
	ctx := context.Background()

	loc, err := svc.Geocode(ctx, " 12 MG Road, Bengaluru ")
	require.NoError(t, err)
	assert.True(t, loc.Serviceable)

	loc, err = svc.Reverse(ctx, 12.9756, 77.6066)
	require.NoError(t, err)
	assert.Equal(t, "560001", loc.Pincode)

	_, err = svc.Geocode(ctx, "")
	assert.Error(t, err)
	_, err = svc.Reverse(ctx, 91, 0)
	assert.Error(t, err)
	api.AssertExpectations(t)
}

func TestDecodeData(t *testing.T) {
	type item struct {
		ID string `json:"id"`
	}

	got, err := decodeData[item]([]byte(`{"success":true,"data":{"id":"x"}}`))
	require.NoError(t, err)
	assert.Equal(t, "x", got.ID)

	got, err = decodeData[item]([]byte(`{"id":"bare"}`))
	require.NoError(t, err)
	assert.Equal(t, "bare", got.ID)

	got, err = decodeData[item]([]byte(`{"success":true,"data":null}`))
	require.NoError(t, err)
	assert.Empty(t, got.ID)

	list, err := decodeData[[]item]([]byte(`[{"id":"a"},{"id":"b"}]`))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = decodeData[[]item]([]byte(`{"success":true}`))
	assert.Error(t, err)
}
