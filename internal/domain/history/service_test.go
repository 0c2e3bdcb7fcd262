package history

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepo 内存仓库，按插入顺序保存，List按倒序返回
type memRepo struct {
	records []*Record
}

func (r *memRepo) Insert(_ context.Context, record *Record) error {
	cp := *record
	r.records = append(r.records, &cp)
	return nil
}

func (r *memRepo) Find(_ context.Context, id string) (*Record, error) {
	for _, rec := range r.records {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRepo) UpdateWinner(_ context.Context, id string, winner int) error {
	for _, rec := range r.records {
		if rec.ID == id {
			w := winner
			rec.Winner = &w
		}
	}
	return nil
}

func (r *memRepo) Replace(_ context.Context, record *Record) error {
	for i, rec := range r.records {
		if rec.ID == record.ID {
			cp := *record
			r.records[i] = &cp
		}
	}
	return nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	for i, rec := range r.records {
		if rec.ID == id {
			r.records = append(r.records[:i], r.records[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *memRepo) matches(rec *Record, filter Filter) bool {
	switch filter {
	case FilterPK:
		return rec.Type == TypePK
	case FilterGeneration:
		return rec.Type != TypePK
	default:
		return true
	}
}

func (r *memRepo) List(_ context.Context, offset, limit int, filter Filter) ([]*Record, error) {
	var out []*Record
	for i := len(r.records) - 1; i >= 0; i-- {
		if r.matches(r.records[i], filter) {
			cp := *r.records[i]
			out = append(out, &cp)
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *memRepo) Count(_ context.Context, filter Filter) (int64, error) {
	var n int64
	for _, rec := range r.records {
		if r.matches(rec, filter) {
			n++
		}
	}
	return n, nil
}

func newTestService() (*Service, *memRepo) {
	repo := &memRepo{}
	return NewService(repo, nil), repo
}

func TestAdd_AssignsIDAndTimestamp(t *testing.T) {
	svc, repo := newTestService()

	id, err := svc.Add(context.Background(), TypePK, PKPayload{
		Left:  PKSide{Platform: "OpenAI", Voice: "alloy", Text: "hi", URL: "u1"},
		Right: PKSide{Platform: "Doubao", Voice: "v", Text: "hi", URL: "u2"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	require.Len(t, repo.records, 1)
	rec := repo.records[0]
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, TypePK, rec.Type)
	assert.Nil(t, rec.Winner)
	assert.Greater(t, rec.CreatedAt, int64(0))
}

func TestAdd_RejectsMismatchedPayload(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Add(context.Background(), TypePK, SingleTextSingleVoicePayload{Voice: "a"})
	assert.Error(t, err)

	_, err = svc.Add(context.Background(), RecordType("bogus"), PKPayload{})
	assert.Error(t, err)

	_, err = svc.Add(context.Background(), TypePK, nil)
	assert.Error(t, err)
}

func TestUpdate_WinnerMergeAndAbsentID(t *testing.T) {
	svc, repo := newTestService()

	id, err := svc.Add(context.Background(), TypePK, PKPayload{})
	require.NoError(t, err)

	winner := 1
	require.NoError(t, svc.Update(context.Background(), id, UpdateFields{Winner: &winner}))
	require.NotNil(t, repo.records[0].Winner)
	assert.Equal(t, 1, *repo.records[0].Winner)

	// winner为nil时不做任何事
	require.NoError(t, svc.Update(context.Background(), id, UpdateFields{}))
	assert.Equal(t, 1, *repo.records[0].Winner)

	// id不存在时静默成功
	assert.NoError(t, svc.Update(context.Background(), "missing", UpdateFields{Winner: &winner}))
}

func TestDeleteSubItem_MultiVoiceRemovesClip(t *testing.T) {
	svc, repo := newTestService()

	id, err := svc.Add(context.Background(), TypeSingleTextMultipleVoices, SingleTextMultipleVoicesPayload{
		Text: "hello",
		Voices: []VoiceClip{
			{Voice: "a", URL: "u1", Platform: "OpenAI"},
			{Voice: "b", URL: "u2", Platform: "Doubao"},
			{Voice: "c", URL: "u3", Platform: "fish"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSubItem(context.Background(), id, 1, TypeSingleTextMultipleVoices))

	payload := repo.records[0].Payload.(SingleTextMultipleVoicesPayload)
	require.Len(t, payload.Voices, 2)
	assert.Equal(t, "a", payload.Voices[0].Voice)
	assert.Equal(t, "c", payload.Voices[1].Voice)
}

func TestDeleteSubItem_LastItemDeletesRecord(t *testing.T) {
	svc, repo := newTestService()

	id, err := svc.Add(context.Background(), TypeSingleTextMultipleVoices, SingleTextMultipleVoicesPayload{
		Text:   "hello",
		Voices: []VoiceClip{{Voice: "a", URL: "u1", Platform: "OpenAI"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSubItem(context.Background(), id, 0, TypeSingleTextMultipleVoices))
	assert.Empty(t, repo.records)
}

func TestDeleteSubItem_ParallelArraysStayPaired(t *testing.T) {
	svc, repo := newTestService()

	id, err := svc.Add(context.Background(), TypeMultipleTextsSingleVoice, MultipleTextsSingleVoicePayload{
		Voice:    "alloy",
		Platform: "OpenAI",
		Texts:    []string{"t0", "t1", "t2"},
		URLs:     []string{"u0", "u1", "u2"},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSubItem(context.Background(), id, 0, TypeMultipleTextsSingleVoice))

	payload := repo.records[0].Payload.(MultipleTextsSingleVoicePayload)
	assert.Equal(t, []string{"t1", "t2"}, payload.Texts)
	assert.Equal(t, []string{"u1", "u2"}, payload.URLs)
}

func TestDeleteSubItem_IndexOutOfRange(t *testing.T) {
	svc, repo := newTestService()

	id, err := svc.Add(context.Background(), TypeMultipleTextsMultipleVoices, MultipleTextsMultipleVoicesPayload{
		Pairs: []TextVoicePair{{Text: "t", Voice: "v", Platform: "p", URL: "u"}},
	})
	require.NoError(t, err)

	assert.Error(t, svc.DeleteSubItem(context.Background(), id, 5, TypeMultipleTextsMultipleVoices))
	assert.Error(t, svc.DeleteSubItem(context.Background(), id, -1, TypeMultipleTextsMultipleVoices))
	// 失败后记录保持原状
	require.Len(t, repo.records, 1)
}

func TestDeleteSubItem_SingleItemTypeDeletesWholeRecord(t *testing.T) {
	svc, repo := newTestService()

	id, err := svc.Add(context.Background(), TypeSingleTextSingleVoice, SingleTextSingleVoicePayload{
		Voice: "alloy", Text: "hi", URL: "u", Platform: "OpenAI",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteSubItem(context.Background(), id, 0, TypeSingleTextSingleVoice))
	assert.Empty(t, repo.records)
}

func TestDeleteSubItem_AbsentRecordIsNoOp(t *testing.T) {
	svc, _ := newTestService()
	assert.NoError(t, svc.DeleteSubItem(context.Background(), "missing", 0, TypeSingleTextMultipleVoices))
}

func TestListPage_PagingAndFilter(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Add(ctx, TypePK, PKPayload{})
		require.NoError(t, err)
	}
	_, err := svc.Add(ctx, TypeSingleTextSingleVoice, SingleTextSingleVoicePayload{Voice: "a"})
	require.NoError(t, err)

	page, err := svc.ListPage(ctx, 1, 2, FilterAll)
	require.NoError(t, err)
	assert.Equal(t, int64(4), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Items, 2)

	pk, err := svc.ListPage(ctx, 1, 10, FilterPK)
	require.NoError(t, err)
	assert.Equal(t, int64(3), pk.Total)
	assert.Equal(t, 1, pk.TotalPages)

	gen, err := svc.ListPage(ctx, 1, 10, FilterGeneration)
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen.Total)

	// 页码越界返回空页
	empty, err := svc.ListPage(ctx, 9, 2, FilterAll)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 9, empty.CurrentPage)
}

func TestPKRecords(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	records, err := svc.PKRecords(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	_, err = svc.Add(ctx, TypePK, PKPayload{})
	require.NoError(t, err)
	_, err = svc.Add(ctx, TypeSingleTextSingleVoice, SingleTextSingleVoicePayload{Voice: "a"})
	require.NoError(t, err)

	records, err = svc.PKRecords(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, TypePK, records[0].Type)
}
