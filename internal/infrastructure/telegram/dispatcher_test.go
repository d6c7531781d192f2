package telegram

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/goods-gate/goods-gate/internal/application/negotiation"
	"github.com/goods-gate/goods-gate/internal/domain/catalog"
	catalogmocks "github.com/goods-gate/goods-gate/internal/domain/catalog/mocks"
	ordermocks "github.com/goods-gate/goods-gate/internal/domain/order/mocks"
	"github.com/goods-gate/goods-gate/internal/infrastructure/memory"
)

func newTestDispatcher(t *testing.T, api *fakeAPI) (*Dispatcher, *catalogmocks.MockDirectory) {
	t.Helper()
	ctrl := gomock.NewController(t)
	directory := catalogmocks.NewMockDirectory(ctrl)
	backend := ordermocks.NewMockBackend(ctrl)

	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)
	client := NewClientWithBase(srv.URL, "tok", zerolog.Nop())

	policy, err := negotiation.NewPolicy(directory, "", zerolog.Nop())
	require.NoError(t, err)
	router := negotiation.NewRouter(
		memory.NewSessionStore(),
		memory.NewRegistry(),
		directory,
		backend,
		client,
		negotiation.NewFanout(client, zerolog.Nop()),
		policy,
		[]int64{501},
		[]int64{601},
		zerolog.Nop(),
	)
	return NewDispatcher(router, client, zerolog.Nop()), directory
}

func TestDispatchStartDeniesUnknown(t *testing.T) {
	api := &fakeAPI{}
	d, directory := newTestDispatcher(t, api)
	directory.EXPECT().Authorize(gomock.Any(), int64(777)).Return(nil, nil)

	d.Dispatch(context.Background(), Update{
		Message: &Message{From: &User{ID: 777}, Chat: &Chat{ID: 777}, Text: "/start"},
	})

	calls := api.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "/bottok/sendMessage", calls[0].path)
	assert.Contains(t, calls[0].body["text"], "немає доступу")
}

func TestDispatchProductCodeMessage(t *testing.T) {
	api := &fakeAPI{}
	d, directory := newTestDispatcher(t, api)
	directory.EXPECT().Authorize(gomock.Any(), int64(777)).
		Return(&catalog.Profile{RequesterID: 777, AccountID: 10444}, nil)
	directory.EXPECT().LookupProduct(gomock.Any(), int64(363482)).
		Return(&catalog.Product{Code: 363482, Name: "Колесо R17", Price: 1999.5}, nil)

	d.Dispatch(context.Background(), Update{
		Message: &Message{From: &User{ID: 777}, Chat: &Chat{ID: 777}, Text: " 363482 "},
	})

	calls := api.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "/bottok/sendMessage", calls[0].path)
	_, hasMarkup := calls[0].body["reply_markup"]
	assert.True(t, hasMarkup, "the product card carries inline choices")
}

func TestDispatchMalformedCallbackOnlyAnswers(t *testing.T) {
	api := &fakeAPI{}
	d, _ := newTestDispatcher(t, api)

	d.Dispatch(context.Background(), Update{
		Callback: &CallbackQuery{ID: "cb-1", From: &User{ID: 601}, Data: "d|garbage"},
	})

	calls := api.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, "/bottok/answerCallbackQuery", calls[0].path)
	assert.Equal(t, "cb-1", calls[0].body["callback_query_id"])
}

func TestDispatchIgnoresEmptyUpdate(t *testing.T) {
	api := &fakeAPI{}
	d, _ := newTestDispatcher(t, api)

	d.Dispatch(context.Background(), Update{UpdateID: 5})
	assert.Empty(t, api.recorded())
}
