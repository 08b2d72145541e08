package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"EventBoard/internal/model"
	"EventBoard/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

// fakeEventRepo 内存假仓储，模拟一次往返返回的合并行
type fakeEventRepo struct {
	rows []*repository.UnifiedEventRow
	err  error
}

func (f *fakeEventRepo) ListUnifiedEvents(ctx context.Context) ([]*repository.UnifiedEventRow, error) {
	return f.rows, f.err
}

func (f *fakeEventRepo) CountEvents(ctx context.Context) (int64, int64, error) {
	return int64(len(f.rows)), 0, f.err
}

func (f *fakeEventRepo) StatsFor(ctx context.Context, t model.EventType) (*repository.TableStats, error) {
	return &repository.TableStats{}, f.err
}

func (f *fakeEventRepo) Ping(ctx context.Context) error { return f.err }

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func strPtr(s string) *string { return &s }

func row(id, eventType string, startDate *string) *repository.UnifiedEventRow {
	return &repository.UnifiedEventRow{
		ID:        id,
		Name:      "Event " + id,
		URL:       "https://example.com/" + id,
		EventType: eventType,
		StartDate: startDate,
		Location:  strPtr("San Francisco, CA"),
	}
}

func TestListEvents_ValidDatesSortBeforeMissing(t *testing.T) {
	repo := &fakeEventRepo{rows: []*repository.UnifiedEventRow{
		row("a", "hackathon", nil),                        // 缺日期
		row("b", "conference", strPtr("2025-03-10")),      // 较早
		row("c", "hackathon", strPtr("sometime in 2025")), // 无法解析
		row("d", "conference", strPtr("2025-09-17")),      // 最新
	}}
	svc := NewEventService(repo, testLogger())

	events, err := svc.ListEvents(context.Background(), EventFilter{})
	assert.Nil(t, err)
	assert.Len(t, events, 4)

	// 有效日期降序在前，缺失/无法解析的排最后
	assert.Equal(t, "d", events[0].ID)
	assert.Equal(t, "b", events[1].ID)
	ids := []string{events[2].ID, events[3].ID}
	assert.Contains(t, ids, "a")
	assert.Contains(t, ids, "c")
}

func TestListEvents_SameIDAcrossVariantsStaysDistinct(t *testing.T) {
	repo := &fakeEventRepo{rows: []*repository.UnifiedEventRow{
		row("1", "conference", nil),
		row("1", "hackathon", strPtr("2025-09-17")),
	}}
	svc := NewEventService(repo, testLogger())

	events, err := svc.ListEvents(context.Background(), EventFilter{Limit: 10})
	assert.Nil(t, err)
	assert.Len(t, events, 2)

	// (id, type) 才是联合键：同 id 两个变体都要返回，且有日期的黑客松在前
	assert.Equal(t, "hackathon", events[0].Type)
	assert.Equal(t, "conference", events[1].Type)
}

func TestListEvents_LatestActionOverlay(t *testing.T) {
	when := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	r := row("a", "hackathon", strPtr("2025-09-17"))
	r.LastAction = strPtr("archive")
	r.ActionTime = &when

	svc := NewEventService(&fakeEventRepo{rows: []*repository.UnifiedEventRow{r}}, testLogger())
	events, err := svc.ListEvents(context.Background(), EventFilter{})
	assert.Nil(t, err)
	assert.Len(t, events, 1)
	assert.NotNil(t, events[0].LastAction)
	assert.Equal(t, "archive", *events[0].LastAction)
	assert.Equal(t, when, *events[0].ActionTime)
}

func TestListEvents_UnknownActionKindNulledNotFatal(t *testing.T) {
	when := time.Now().UTC()
	r := row("a", "hackathon", strPtr("2025-09-17"))
	r.LastAction = strPtr("webinar")
	r.ActionTime = &when

	svc := NewEventService(&fakeEventRepo{rows: []*repository.UnifiedEventRow{r}}, testLogger())
	events, err := svc.ListEvents(context.Background(), EventFilter{})
	assert.Nil(t, err)
	assert.Len(t, events, 1)
	assert.Nil(t, events[0].LastAction)
	assert.Nil(t, events[0].ActionTime)
}

func TestListEvents_TypeFilter(t *testing.T) {
	repo := &fakeEventRepo{rows: []*repository.UnifiedEventRow{
		row("a", "hackathon", strPtr("2025-01-01")),
		row("b", "conference", strPtr("2025-02-01")),
		row("c", "hackathon", strPtr("2025-03-01")),
	}}
	svc := NewEventService(repo, testLogger())

	events, err := svc.ListEvents(context.Background(), EventFilter{Type: "hackathon"})
	assert.Nil(t, err)
	assert.Len(t, events, 2)
	for _, e := range events {
		assert.Equal(t, "hackathon", e.Type)
	}

	// 再套用一次同样的过滤，结果不变（幂等）
	again := applyFilter(events, EventFilter{Type: "hackathon"})
	assert.Equal(t, events, again)
}

func TestListEvents_LocationFilterCaseInsensitiveSubstring(t *testing.T) {
	nyc := row("a", "conference", strPtr("2025-04-05"))
	nyc.Location = strPtr("New York, NY")
	sf := row("b", "hackathon", strPtr("2025-05-01"))

	svc := NewEventService(&fakeEventRepo{rows: []*repository.UnifiedEventRow{nyc, sf}}, testLogger())
	events, err := svc.ListEvents(context.Background(), EventFilter{Location: "new york"})
	assert.Nil(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "a", events[0].ID)
}

func TestListEvents_StatusFilterMatchesLastAction(t *testing.T) {
	archived := row("a", "hackathon", strPtr("2025-01-01"))
	archived.LastAction = strPtr("archive")
	plain := row("b", "hackathon", strPtr("2025-02-01"))

	svc := NewEventService(&fakeEventRepo{rows: []*repository.UnifiedEventRow{archived, plain}}, testLogger())
	events, err := svc.ListEvents(context.Background(), EventFilter{Status: "archive"})
	assert.Nil(t, err)
	assert.Len(t, events, 1)
	assert.Equal(t, "a", events[0].ID)
}

func TestListEvents_LimitTruncatesAfterSort(t *testing.T) {
	repo := &fakeEventRepo{rows: []*repository.UnifiedEventRow{
		row("old", "hackathon", strPtr("2024-01-01")),
		row("new", "hackathon", strPtr("2025-06-01")),
		row("mid", "hackathon", strPtr("2025-01-01")),
	}}
	svc := NewEventService(repo, testLogger())

	events, err := svc.ListEvents(context.Background(), EventFilter{Limit: 2})
	assert.Nil(t, err)
	assert.Len(t, events, 2)
	// 截断发生在排序之后：保留的是最新的两条
	assert.Equal(t, "new", events[0].ID)
	assert.Equal(t, "mid", events[1].ID)
}

func TestListEvents_StoreUnavailable(t *testing.T) {
	svc := NewEventService(&fakeEventRepo{err: errors.New("connection refused")}, testLogger())
	events, err := svc.ListEvents(context.Background(), EventFilter{})
	assert.Nil(t, events)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
}

func TestEnrich_StatusDerivation(t *testing.T) {
	svc := NewEventService(&fakeEventRepo{}, testLogger())

	// 缺开始日期 -> filtered
	noDate := svc.enrich(row("a", "hackathon", nil))
	assert.Equal(t, StatusFiltered, noDate.Status)
	assert.Equal(t, ValueTBD, noDate.StartDate)

	// 日期地点齐全 -> enriched
	full := svc.enrich(row("b", "conference", strPtr("2025-09-17")))
	assert.Equal(t, StatusEnriched, full.Status)

	// 有日期但地点缺失 -> validated
	bare := row("c", "hackathon", strPtr("2025-09-17"))
	bare.Location = nil
	assert.Equal(t, StatusValidated, svc.enrich(bare).Status)
}

func TestEnrich_LocationSentinels(t *testing.T) {
	svc := NewEventService(&fakeEventRepo{}, testLogger())

	remote := row("a", "hackathon", nil)
	remote.Location = nil
	remote.Remote = true
	assert.Equal(t, LocationRemote, svc.enrich(remote).Location)

	cityOnly := row("b", "conference", nil)
	cityOnly.Location = nil
	cityOnly.City = strPtr("Berlin")
	assert.Equal(t, "Berlin", svc.enrich(cityOnly).Location)
}

func TestParseEventDate(t *testing.T) {
	valid := []string{
		"2025-09-17",
		"2025-09-17T10:00:00Z",
		"Sep 17, 2025",
		"September 17, 2025",
	}
	for _, raw := range valid {
		_, ok := parseEventDate(raw)
		assert.True(t, ok, "应能解析: %s", raw)
	}

	invalid := []string{"", "TBD", "tbd", "sometime soon", "2025-13-45"}
	for _, raw := range invalid {
		_, ok := parseEventDate(raw)
		assert.False(t, ok, "不应解析: %s", raw)
	}
}
