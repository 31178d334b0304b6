package journal

import (
	"iter"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openJournal(t *testing.T, dir string) *Journal {
	t.Helper()
	j, err := Open(dir)
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func collect(t *testing.T, seq func() (iter.Seq[string], error)) []string {
	t.Helper()
	s, err := seq()
	require.NoError(t, err)
	return slices.Collect(s)
}

func completePass(t *testing.T, j *Journal, fn func()) {
	t.Helper()
	require.NoError(t, j.MarkHarvestStart())
	fn()
	require.NoError(t, j.MarkHarvestReady())
}

func TestMarkEvent_WritesLines(t *testing.T) {
	dir := t.TempDir()
	j := openJournal(t, dir)

	require.NoError(t, j.MarkHarvestStart())
	require.NoError(t, j.MarkAdded("id0", "h0"))
	require.NoError(t, j.MarkDeleted("id1"))

	data, err := os.ReadFile(filepath.Join(dir, CurrentFile))
	require.NoError(t, err)
	assert.Equal(t, "id0\tA\th0\nid1\tD\t\n", string(data))
}

func TestMarkEvent_WithoutOpenPassPanics(t *testing.T) {
	j := openJournal(t, t.TempDir())

	assert.Panics(t, func() { _ = j.MarkAdded("id0", "h0") })
	assert.Panics(t, func() { _ = j.MarkHarvestReady() })
}

func TestMarkEvent_RejectsInvalidIdentifier(t *testing.T) {
	j := openJournal(t, t.TempDir())
	require.NoError(t, j.MarkHarvestStart())

	for _, id := range []string{"", "a\tb", "a\nb"} {
		err := j.MarkAdded(id, "h")
		assert.ErrorIs(t, err, ErrInvalidIdentifier, id)
	}
}

func TestValidIdentifier(t *testing.T) {
	for _, id := range []string{"id0", "lib:oai:test:1", "with space"} {
		assert.True(t, ValidIdentifier(id), id)
	}
	for _, id := range []string{"", "a\tb", "a\nb", "a\rb"} {
		assert.False(t, ValidIdentifier(id), id)
	}
}

func TestAlreadyAddedAndDeleted(t *testing.T) {
	dir := t.TempDir()
	j := openJournal(t, dir)
	completePass(t, j, func() {
		require.NoError(t, j.MarkAdded("id0", "h0"))
		require.NoError(t, j.MarkAdded("id1", "h1"))
		require.NoError(t, j.MarkDeleted("id1"))
		require.NoError(t, j.MarkDeleted("id2"))
	})

	j = openJournal(t, dir)
	assert.True(t, j.AlreadyAdded("id0", "h0"))
	assert.False(t, j.AlreadyAdded("id0", "other"))
	assert.False(t, j.AlreadyAdded("id1", "h1"), "latest action for id1 is a delete")
	assert.False(t, j.AlreadyAdded("unknown", ""))

	assert.False(t, j.AlreadyDeleted("id0"))
	assert.True(t, j.AlreadyDeleted("id1"))
	assert.True(t, j.AlreadyDeleted("id2"))
	assert.False(t, j.AlreadyDeleted("unknown"))
}

func TestAlreadyAdded_SeesOpenPass(t *testing.T) {
	j := openJournal(t, t.TempDir())
	completePass(t, j, func() {
		require.NoError(t, j.MarkAdded("id0", "h0"))
	})

	require.NoError(t, j.MarkHarvestStart())
	require.NoError(t, j.MarkAdded("id0", "h0-new"))
	require.NoError(t, j.MarkAdded("id5", "h5"))

	assert.True(t, j.AlreadyAdded("id0", "h0-new"))
	assert.False(t, j.AlreadyAdded("id0", "h0"))
	assert.True(t, j.AlreadyAdded("id5", "h5"))
}

func TestRemainingAdds(t *testing.T) {
	j := openJournal(t, t.TempDir())
	completePass(t, j, func() {
		require.NoError(t, j.MarkAdded("c", "hc"))
		require.NoError(t, j.MarkAdded("a", "ha"))
		require.NoError(t, j.MarkDeleted("d"))
		require.NoError(t, j.MarkAdded("e", "he"))
	})

	require.NoError(t, j.MarkHarvestStart())
	require.NoError(t, j.MarkDeleted("e"))
	require.NoError(t, j.MarkAdded("b", "hb"))
	require.NoError(t, j.MarkAdded("a", "ha2"))

	assert.Equal(t, []string{"a", "b", "c"}, collect(t, j.RemainingAdds))
}

func TestToBeDeleted(t *testing.T) {
	j := openJournal(t, t.TempDir())
	completePass(t, j, func() {
		require.NoError(t, j.MarkAdded("id0", "h0"))
		require.NoError(t, j.MarkAdded("id1", "h1"))
		require.NoError(t, j.MarkDeleted("id2"))
		require.NoError(t, j.MarkAdded("id3", "h3"))
	})

	assert.Empty(t, collect(t, j.ToBeDeleted), "no pass in progress")

	require.NoError(t, j.MarkHarvestStart())
	require.NoError(t, j.MarkAdded("id0", "h0"))
	require.NoError(t, j.MarkDeleted("id3"))

	assert.Equal(t, []string{"id1"}, collect(t, j.ToBeDeleted))
}

func TestDisappearedRecordScenario(t *testing.T) {
	j := openJournal(t, t.TempDir())
	completePass(t, j, func() {
		require.NoError(t, j.MarkAdded("id0", "h0"))
		require.NoError(t, j.MarkAdded("id1", "h1"))
	})

	require.NoError(t, j.MarkHarvestStart())
	require.NoError(t, j.MarkAdded("id0", "h0"))
	toDelete := collect(t, j.ToBeDeleted)
	require.Equal(t, []string{"id1"}, toDelete)
	for _, id := range toDelete {
		require.NoError(t, j.MarkDeleted(id))
	}
	assert.Empty(t, collect(t, j.ToBeDeleted))
	require.NoError(t, j.MarkHarvestReady())

	assert.Equal(t, []string{"id0"}, collect(t, j.RemainingAdds))
	assert.True(t, j.AlreadyDeleted("id1"))
}

func TestMarkHarvestStart_ResumesCrashedPass(t *testing.T) {
	dir := t.TempDir()
	j := openJournal(t, dir)
	require.NoError(t, j.MarkHarvestStart())
	require.NoError(t, j.MarkAdded("id0", "h0"))
	require.NoError(t, j.Close())

	j = openJournal(t, dir)
	pending, err := j.HasPendingPass()
	require.NoError(t, err)
	assert.True(t, pending)
	assert.False(t, j.HasOpenPass())

	require.NoError(t, j.MarkHarvestStart())
	require.NoError(t, j.MarkHarvestStart())
	assert.True(t, j.AlreadyAdded("id0", "h0"))
	require.NoError(t, j.MarkAdded("id1", "h1"))

	data, err := os.ReadFile(filepath.Join(dir, CurrentFile))
	require.NoError(t, err)
	assert.Equal(t, "id0\tA\th0\nid1\tA\th1\n", string(data))
}

func TestMarkHarvestStart_TruncatesTornWrite(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, CurrentFile)
	require.NoError(t, os.WriteFile(current, []byte("id0\tA\th0\nid1\tA\th"), 0o644))

	j := openJournal(t, dir)
	ids := collect(t, j.RemainingAdds)
	assert.Equal(t, []string{"id0"}, ids, "torn line is ignored when read")

	require.NoError(t, j.MarkHarvestStart())
	require.NoError(t, j.MarkAdded("id2", "h2"))

	data, err := os.ReadFile(current)
	require.NoError(t, err)
	assert.Equal(t, "id0\tA\th0\nid2\tA\th2\n", string(data))
}

func TestMarkHarvestStart_TruncatesSingleTornLine(t *testing.T) {
	dir := t.TempDir()
	current := filepath.Join(dir, CurrentFile)
	require.NoError(t, os.WriteFile(current, []byte("id0\tA"), 0o644))

	j := openJournal(t, dir)
	require.NoError(t, j.MarkHarvestStart())

	info, err := os.Stat(current)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestMarkHarvestReady_ReplacesPrevious(t *testing.T) {
	dir := t.TempDir()
	j := openJournal(t, dir)
	completePass(t, j, func() {
		require.NoError(t, j.MarkAdded("old", "h"))
	})

	require.NoError(t, j.MarkHarvestStart())
	require.NoError(t, j.MarkAdded("new", "h"))

	// Not sealed yet: previous is still the old pass.
	data, err := os.ReadFile(filepath.Join(dir, PreviousFile))
	require.NoError(t, err)
	assert.Equal(t, "old\tA\th\n", string(data))

	require.NoError(t, j.MarkHarvestReady())

	data, err = os.ReadFile(filepath.Join(dir, PreviousFile))
	require.NoError(t, err)
	assert.Equal(t, "new\tA\th\n", string(data))
	_, err = os.Stat(filepath.Join(dir, CurrentFile))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, j.HasOpenPass())
	assert.True(t, j.AlreadyAdded("new", "h"))
	assert.False(t, j.AlreadyAdded("old", "h"))
}

func TestOpen_CorruptPrevious(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, PreviousFile), []byte("id0\tX\th\n"), 0o644))

	_, err := Open(dir)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestReset(t *testing.T) {
	dir := t.TempDir()
	j := openJournal(t, dir)
	completePass(t, j, func() {
		require.NoError(t, j.MarkAdded("id0", "h0"))
	})
	require.NoError(t, j.MarkHarvestStart())
	require.NoError(t, j.MarkAdded("id1", "h1"))

	require.NoError(t, j.Reset())

	assert.False(t, j.AlreadyAdded("id0", "h0"))
	assert.Empty(t, collect(t, j.RemainingAdds))
	pending, err := j.HasPendingPass()
	require.NoError(t, err)
	assert.False(t, pending)
}
