package telegram

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const updateBatch = `[
	{"update_id": 1, "channel_post": {"message_id": 10, "date": 1710064800,
		"chat": {"id": -100500, "type": "channel", "title": "Crypto Wire"},
		"author_signature": "Desk", "text": "BTC ETF inflows hit a record #bitcoin"}},
	{"update_id": 2, "message": {"message_id": 11, "date": 1710064860,
		"chat": {"id": -100600, "type": "supergroup", "username": "degens"},
		"from": {"id": 7, "is_bot": false, "first_name": "Ann", "username": "ann_trades"},
		"caption": "SOL looks weak"}},
	{"update_id": 3, "edited_message": {"message_id": 11, "date": 1710064900,
		"chat": {"id": -100600, "type": "supergroup"}, "text": "edited"}}
]`

func writeFile(t *testing.T, name, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestUpdateSource_Load(t *testing.T) {
	raws, err := NewUpdateSource(writeFile(t, "updates.json", updateBatch)).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 2, "edited messages are skipped")

	assert.Equal(t, "-100500:10", raws[0]["id"])
	assert.Equal(t, "Crypto Wire", raws[0]["channel"])
	assert.Equal(t, "Desk", raws[0]["sender"])
	assert.Equal(t, "BTC ETF inflows hit a record #bitcoin", raws[0]["text"])
	assert.Equal(t, int64(1710064800), raws[0]["timestamp"])

	assert.Equal(t, "degens", raws[1]["channel"])
	assert.Equal(t, "ann_trades", raws[1]["sender"])
	assert.Equal(t, "SOL looks weak", raws[1]["text"])
}

func TestUpdateSource_GetUpdatesResponse(t *testing.T) {
	body := `{"ok": true, "result": ` + updateBatch + `}`

	raws, err := NewUpdateSource(writeFile(t, "response.json", body)).Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, raws, 2)
}

func TestUpdateSource_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := NewUpdateSource(filepath.Join(t.TempDir(), "missing.json")).Load(ctx)
	assert.Error(t, err)

	_, err = NewUpdateSource(writeFile(t, "failed.json", `{"ok": false, "description": "Unauthorized"}`)).Load(ctx)
	assert.ErrorContains(t, err, "Unauthorized")

	_, err = NewUpdateSource(writeFile(t, "bad.json", `[{"update_id": "x"}]`)).Load(ctx)
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewUpdateSource(writeFile(t, "ok.json", updateBatch)).Load(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}
