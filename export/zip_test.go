package export

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"survey-collector/model"
)

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	entries := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		rc.Close()
		require.NoError(t, err)
		entries[f.Name] = string(content)
	}
	return entries
}

func TestBuildArchive(t *testing.T) {
	files := []model.ExportFile{
		{ID: 7, Name: "photo.jpg", Blob: []byte("img"), Type: model.FileTypeImage,
			SubmitTime: "2024-03-01 09:15:00", RecordID: 3},
		{ID: 9, Name: "photo.jpg", Blob: []byte("img2"), Type: model.FileTypeImage,
			SubmitTime: "2024-03-01 11:40:00", RecordID: 4},
		{ID: 12, Name: "essay.docx", Blob: []byte("doc"), Type: model.FileTypeWord,
			SubmitTime: "2024-03-02 08:00:00", RecordID: 5},
	}

	data, err := BuildArchive(files)
	require.NoError(t, err)

	entries := readArchive(t, data)
	require.Len(t, entries, 4)

	// id prefix keeps same-day duplicate names apart
	assert.Equal(t, "img", entries["2024-03-01/7_photo.jpg"])
	assert.Equal(t, "img2", entries["2024-03-01/9_photo.jpg"])
	assert.Equal(t, "doc", entries["2024-03-02/12_essay.docx"])

	manifest := entries["README.txt"]
	assert.Contains(t, manifest, "record id: 3")
	assert.Contains(t, manifest, "file id: 7")
	assert.Contains(t, manifest, "file: 12_essay.docx (word)")
	assert.Contains(t, manifest, "time: 2024-03-01 09:15:00")
}

func TestBuildArchiveEmptyStillHasManifest(t *testing.T) {
	data, err := BuildArchive(nil)
	require.NoError(t, err)

	entries := readArchive(t, data)
	require.Len(t, entries, 1)
	assert.Contains(t, entries, "README.txt")
	assert.Empty(t, entries["README.txt"])
}

func TestArchiveName(t *testing.T) {
	assert.Equal(t, "all_files.zip", ArchiveName("all"))
	assert.Equal(t, "images_only.zip", ArchiveName("image"))
	assert.Equal(t, "word_only.zip", ArchiveName("word"))
	assert.Equal(t, "all_files.zip", ArchiveName("bogus"))
}
