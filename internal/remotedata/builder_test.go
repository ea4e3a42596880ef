// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package remotedata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/MKhiriev/halsync/internal/cache"
	"github.com/MKhiriev/halsync/internal/index"
	"github.com/MKhiriev/halsync/internal/logger"
	"github.com/MKhiriev/halsync/internal/mock"
	"github.com/MKhiriev/halsync/internal/tracker"
	"github.com/MKhiriev/halsync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type testObj struct {
	id    string
	title string
	addr  string
}

func (o *testObj) Kind() string        { return "item" }
func (o *testObj) Identifier() string  { return o.id }
func (o *testObj) SelfAddress() string { return o.addr }

// stubDenormalizer — прямое восстановление без реестра схем
type stubDenormalizer struct {
	err error
}

func (d *stubDenormalizer) Denormalize(norm models.NormalizedObject) (models.DomainObject, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &testObj{
		id:    norm.ID,
		title: fmt.Sprint(norm.Fields["title"]),
		addr:  norm.Address,
	}, nil
}

// cacheWriteSink повторяет контракт боевого sink: успешные payload-объекты
// попадают в кэш до того, как наблюдатели увидят терминальное состояние.
type cacheWriteSink struct {
	cache *cache.Cache
}

func (s *cacheWriteSink) Consume(entry models.RequestEntry) {
	if entry.State != models.RequestStateSuccess || entry.Response == nil || entry.Response.Payload == nil {
		return
	}
	if obj := entry.Response.Payload.Object; obj != nil {
		address := obj.Address
		if address == "" {
			address = entry.Address
		}
		s.cache.Put(address, obj, entry.ID)
	}
	if page := entry.Response.Payload.Page; page != nil {
		for i := range page.Objects {
			obj := page.Objects[i]
			s.cache.Put(obj.Address, &obj, entry.ID)
		}
	}
}

type builderFixture struct {
	builder   *Builder
	tracker   *tracker.Tracker
	cache     *cache.Cache
	transport *mock.MockTransport
	codec     *mock.MockNormalizer
}

func newBuilderFixture(t *testing.T, ctrl *gomock.Controller) *builderFixture {
	t.Helper()
	transport := mock.NewMockTransport(ctrl)
	codec := mock.NewMockNormalizer(ctrl)
	c := cache.NewCache(logger.Nop())
	idx := index.NewIndex(logger.Nop())
	trk := tracker.NewTracker(transport, codec, idx, logger.Nop())
	trk.SetResponseSink(&cacheWriteSink{cache: c})

	return &builderFixture{
		builder:   NewBuilder(trk, c, &stubDenormalizer{}, logger.Nop()),
		tracker:   trk,
		cache:     c,
		transport: transport,
		codec:     codec,
	}
}

func awaitValue[T any](t *testing.T, ch <-chan models.RemoteData[T]) models.RemoteData[T] {
	t.Helper()
	select {
	case value, ok := <-ch:
		require.True(t, ok, "stream closed before expected value")
		return value
	case <-time.After(2 * time.Second):
		t.Fatal("no value from stream")
		return models.RemoteData[T]{}
	}
}

func awaitTerminal[T any](t *testing.T, ch <-chan models.RemoteData[T]) models.RemoteData[T] {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case value, ok := <-ch:
			require.True(t, ok, "stream closed before terminal value")
			if value.HasSucceeded || value.HasFailed {
				return value
			}
		case <-deadline:
			t.Fatal("stream never reached a terminal value")
		}
	}
}

func awaitClosed[T any](t *testing.T, ch <-chan models.RemoteData[T]) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("stream never closed")
		}
	}
}

// ── BuildSingle ──────────────────────────────────────────────────────────────

func TestBuildSingle_LoadingThenSucceeded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBuilderFixture(t, ctrl)
	release := make(chan struct{})
	body := []byte(`{"uuid":"id-1","title":"draft"}`)

	f.transport.EXPECT().
		Send(gomock.Any(), http.MethodGet, "/api/items/1", gomock.Nil()).
		DoAndReturn(func(context.Context, string, string, []byte) (models.TransportResponse, error) {
			<-release
			return models.TransportResponse{Successful: true, Status: http.StatusOK, Body: body}, nil
		})
	f.codec.EXPECT().
		DecodePayload("item", body).
		Return(models.NormalizedPayload{Object: &models.NormalizedObject{
			Kind:    "item",
			ID:      "id-1",
			Address: "/api/items/1",
			Fields:  map[string]any{"title": "draft"},
		}}, nil)

	requestID, err := f.tracker.Configure(context.Background(), tracker.ConfigureRequest{
		Address: "/api/items/1", Kind: "item",
	})
	require.NoError(t, err)

	stream := f.builder.BuildSingle(context.Background(), requestID, "/api/items/1")

	first := awaitValue(t, stream)
	assert.True(t, first.IsLoading)

	close(release)

	terminal := awaitTerminal(t, stream)
	require.True(t, terminal.HasSucceeded)
	obj := (*terminal.Payload).(*testObj)
	assert.Equal(t, "id-1", obj.id)
	assert.Equal(t, "draft", obj.title)

	awaitClosed(t, stream)
}

func TestBuildSingle_FailureIsSticky(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBuilderFixture(t, ctrl)
	f.transport.EXPECT().
		Send(gomock.Any(), http.MethodGet, "/api/items/1", gomock.Nil()).
		Return(models.TransportResponse{}, errors.New("connection refused"))

	requestID, err := f.tracker.Configure(context.Background(), tracker.ConfigureRequest{
		Address: "/api/items/1", Kind: "item",
	})
	require.NoError(t, err)

	stream := f.builder.BuildSingle(context.Background(), requestID, "/api/items/1")

	terminal := awaitTerminal(t, stream)
	require.True(t, terminal.HasFailed)
	assert.Contains(t, terminal.ErrorMessage, "connection refused")
	assert.Nil(t, terminal.Payload)

	awaitClosed(t, stream)
}

func TestBuildSingle_CancelEndsStream(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBuilderFixture(t, ctrl)
	release := make(chan struct{})
	f.transport.EXPECT().
		Send(gomock.Any(), http.MethodGet, "/api/items/1", gomock.Nil()).
		DoAndReturn(func(context.Context, string, string, []byte) (models.TransportResponse, error) {
			<-release
			return models.TransportResponse{Successful: true, Status: http.StatusOK}, nil
		})

	ctx, cancel := context.WithCancel(context.Background())
	requestID, err := f.tracker.Configure(ctx, tracker.ConfigureRequest{Address: "/api/items/1"})
	require.NoError(t, err)

	stream := f.builder.BuildSingle(ctx, requestID, "/api/items/1")
	awaitValue(t, stream)

	cancel()
	awaitClosed(t, stream)

	// Сам запрос отмена наблюдателя не трогает
	close(release)
	entry, err := waitCompleted(f.tracker, requestID)
	require.NoError(t, err)
	assert.Equal(t, models.RequestStateSuccess, entry.State)
}

func waitCompleted(trk *tracker.Tracker, requestID string) (models.RequestEntry, error) {
	deadline := time.After(2 * time.Second)
	for {
		select {
		case <-deadline:
			return models.RequestEntry{}, errors.New("request never completed")
		default:
		}
		if entry, ok := trk.Get(requestID); ok && entry.Completed {
			return entry, nil
		}
		time.Sleep(time.Millisecond)
	}
}

func TestBuildSingle_CreateLearnsAddressFromResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBuilderFixture(t, ctrl)
	body := []byte(`{"uuid":"id-9","title":"created"}`)
	f.transport.EXPECT().
		Send(gomock.Any(), http.MethodPost, "/api/items", gomock.Any()).
		Return(models.TransportResponse{Successful: true, Status: http.StatusCreated, Body: body}, nil)
	f.codec.EXPECT().
		DecodePayload("item", body).
		Return(models.NormalizedPayload{Object: &models.NormalizedObject{
			Kind:    "item",
			ID:      "id-9",
			Address: "/api/items/9",
			Fields:  map[string]any{"title": "created"},
		}}, nil)

	requestID, err := f.tracker.Configure(context.Background(), tracker.ConfigureRequest{
		ID: f.tracker.GenerateID(), Address: "/api/items", Method: http.MethodPost, Kind: "item", Body: []byte(`{"title":"created"}`),
	})
	require.NoError(t, err)

	// Адрес ресурса известен только из ответа
	stream := f.builder.BuildSingle(context.Background(), requestID, "")

	terminal := awaitTerminal(t, stream)
	require.True(t, terminal.HasSucceeded)
	obj := (*terminal.Payload).(*testObj)
	assert.Equal(t, "/api/items/9", obj.addr)
}

// ── BuildList ────────────────────────────────────────────────────────────────

func pageBody() []byte { return []byte(`{"_embedded":{"items":[]}}`) }

func pagePayload() models.NormalizedPayload {
	return models.NormalizedPayload{Page: &models.NormalizedPage{
		Objects: []models.NormalizedObject{
			{Kind: "item", ID: "id-1", Address: "/api/items/1", Fields: map[string]any{"title": "a"}},
			{Kind: "item", ID: "id-2", Address: "/api/items/2", Fields: map[string]any{"title": "b"}},
		},
		Page: models.PageInfo{Number: 0, Size: 20, TotalElements: 2, TotalPages: 1},
	}}
}

func TestBuildList_LoadingThenPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBuilderFixture(t, ctrl)
	release := make(chan struct{})
	f.transport.EXPECT().
		Send(gomock.Any(), http.MethodGet, "/api/items", gomock.Nil()).
		DoAndReturn(func(context.Context, string, string, []byte) (models.TransportResponse, error) {
			<-release
			return models.TransportResponse{Successful: true, Status: http.StatusOK, Body: pageBody()}, nil
		})
	f.codec.EXPECT().DecodePayload("item", pageBody()).Return(pagePayload(), nil)

	requestID, err := f.tracker.Configure(context.Background(), tracker.ConfigureRequest{
		Address: "/api/items", Kind: "item",
	})
	require.NoError(t, err)

	stream := f.builder.BuildList(context.Background(), requestID)

	first := awaitValue(t, stream)
	assert.True(t, first.IsLoading)

	close(release)

	terminal := awaitTerminal(t, stream)
	require.True(t, terminal.HasSucceeded)
	list := *terminal.Payload
	require.Len(t, list.Elements, 2)
	assert.Equal(t, 1, list.CurrentPage, "нумерация страниц для приложения — с единицы")
	assert.Equal(t, 20, list.ElementsPerPage)
	assert.Equal(t, 2, list.TotalElements)
	assert.Equal(t, "a", list.Elements[0].(*testObj).title)

	awaitClosed(t, stream)
}

func TestBuildList_PrefersMaterializedCacheEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBuilderFixture(t, ctrl)
	f.transport.EXPECT().
		Send(gomock.Any(), http.MethodGet, "/api/items", gomock.Nil()).
		Return(models.TransportResponse{Successful: true, Status: http.StatusOK, Body: pageBody()}, nil)
	f.codec.EXPECT().DecodePayload("item", pageBody()).Return(pagePayload(), nil)

	// Локальная неотправленная правка первого элемента
	f.cache.AddPatch("/api/items/1", models.PatchOperation{
		Op: models.PatchOpAdd, Path: "/title", Value: "edited locally",
	})

	requestID, err := f.tracker.Configure(context.Background(), tracker.ConfigureRequest{
		Address: "/api/items", Kind: "item",
	})
	require.NoError(t, err)

	terminal := awaitTerminal(t, f.builder.BuildList(context.Background(), requestID))
	require.True(t, terminal.HasSucceeded)
	list := *terminal.Payload
	require.Len(t, list.Elements, 2)
	assert.Equal(t, "edited locally", list.Elements[0].(*testObj).title)
	assert.Equal(t, "b", list.Elements[1].(*testObj).title)
}

func TestBuildList_ErrorProjectsFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBuilderFixture(t, ctrl)
	f.transport.EXPECT().
		Send(gomock.Any(), http.MethodGet, "/api/items", gomock.Nil()).
		Return(models.TransportResponse{Status: http.StatusInternalServerError, ErrorMessage: "http 500: boom"}, nil)

	requestID, err := f.tracker.Configure(context.Background(), tracker.ConfigureRequest{
		Address: "/api/items", Kind: "item",
	})
	require.NoError(t, err)

	terminal := awaitTerminal(t, f.builder.BuildList(context.Background(), requestID))
	require.True(t, terminal.HasFailed)
	assert.Equal(t, "http 500: boom", terminal.ErrorMessage)
}

func TestBuildList_MissingPagePayloadFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newBuilderFixture(t, ctrl)
	body := []byte(`{"uuid":"id-1"}`)
	f.transport.EXPECT().
		Send(gomock.Any(), http.MethodGet, "/api/items", gomock.Nil()).
		Return(models.TransportResponse{Successful: true, Status: http.StatusOK, Body: body}, nil)
	f.codec.EXPECT().
		DecodePayload("item", body).
		Return(models.NormalizedPayload{Object: &models.NormalizedObject{Kind: "item", ID: "id-1"}}, nil)

	requestID, err := f.tracker.Configure(context.Background(), tracker.ConfigureRequest{
		Address: "/api/items", Kind: "item",
	})
	require.NoError(t, err)

	terminal := awaitTerminal(t, f.builder.BuildList(context.Background(), requestID))
	assert.True(t, terminal.HasFailed)
}
