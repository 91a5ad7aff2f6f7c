package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFile(t *testing.T) {
	tests := []struct {
		name string
		want FileType
	}{
		{"photo.jpg", FileTypeImage},
		{"photo.JPG", FileTypeImage},
		{"scan.jpeg", FileTypeImage},
		{"shot.png", FileTypeImage},
		{"shot.PNG", FileTypeImage},
		{"notes.doc", FileTypeWord},
		{"notes.docx", FileTypeWord},
		{"Notes.DOCX", FileTypeWord},
		{"data.csv", FileTypeOther},
		{"archive.zip", FileTypeOther},
		{"noextension", FileTypeOther},
		{"", FileTypeOther},
		{"tricky.jpg.txt", FileTypeOther},
		{"dir.png/member.txt", FileTypeOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyFile(tt.name))
		})
	}
}
