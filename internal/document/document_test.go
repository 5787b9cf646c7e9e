package document

import "testing"

func TestChunkID(t *testing.T) {
	tests := []struct {
		name       string
		fileName   string
		sectionID  int
		chunkIndex int
		want       string
	}{
		{
			name:       "simple filename",
			fileName:   "prd.md",
			sectionID:  3,
			chunkIndex: 0,
			want:       "prd.md_3_0",
		},
		{
			name:       "filename with underscores",
			fileName:   "payment_api_spec.md",
			sectionID:  12,
			chunkIndex: 4,
			want:       "payment_api_spec.md_12_4",
		},
		{
			name:       "first section first chunk",
			fileName:   "notes.txt",
			sectionID:  0,
			chunkIndex: 0,
			want:       "notes.txt_0_0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChunkID(tt.fileName, tt.sectionID, tt.chunkIndex)
			if got != tt.want {
				t.Errorf("ChunkID() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseChunkID_RoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		fileName   string
		sectionID  int
		chunkIndex int
	}{
		{name: "simple", fileName: "hld.md", sectionID: 0, chunkIndex: 0},
		{name: "underscored filename", fileName: "user_auth_prd.md", sectionID: 7, chunkIndex: 2},
		{name: "large indexes", fileName: "architecture.md", sectionID: 153, chunkIndex: 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := ChunkID(tt.fileName, tt.sectionID, tt.chunkIndex)
			gotFile, gotSection, gotChunk, err := ParseChunkID(id)
			if err != nil {
				t.Fatalf("ParseChunkID(%q) error = %v", id, err)
			}
			if gotFile != tt.fileName {
				t.Errorf("ParseChunkID(%q) fileName = %q, want %q", id, gotFile, tt.fileName)
			}
			if gotSection != tt.sectionID {
				t.Errorf("ParseChunkID(%q) sectionID = %d, want %d", id, gotSection, tt.sectionID)
			}
			if gotChunk != tt.chunkIndex {
				t.Errorf("ParseChunkID(%q) chunkIndex = %d, want %d", id, gotChunk, tt.chunkIndex)
			}
		})
	}
}

func TestParseChunkID_Malformed(t *testing.T) {
	tests := []struct {
		name string
		id   string
	}{
		{name: "empty", id: ""},
		{name: "no separators", id: "prd.md"},
		{name: "one separator", id: "prd.md_3"},
		{name: "non-numeric chunk index", id: "prd.md_3_x"},
		{name: "non-numeric section id", id: "prd.md_x_0"},
		{name: "leading separator only", id: "_0_0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := ParseChunkID(tt.id); err == nil {
				t.Errorf("ParseChunkID(%q) expected error, got nil", tt.id)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	content := "# Overview\nThe system ingests design documents."

	// Same content must always produce the same fingerprint.
	first := Fingerprint(content)
	for i := 0; i < 10; i++ {
		if got := Fingerprint(content); got != first {
			t.Fatalf("Fingerprint() not deterministic: %q != %q", got, first)
		}
	}

	if len(first) != 32 {
		t.Errorf("Fingerprint() length = %d, want 32 hex chars", len(first))
	}

	// Whitespace changes are content changes.
	if got := Fingerprint(content + " "); got == first {
		t.Errorf("Fingerprint() unchanged after trailing whitespace edit")
	}

	// Line ending differences are not content changes.
	crlf := "# Overview\r\nThe system ingests design documents."
	if got := Fingerprint(crlf); got != first {
		t.Errorf("Fingerprint() CRLF = %q, want LF fingerprint %q", got, first)
	}
}

func TestFingerprint_EmptyContent(t *testing.T) {
	got := Fingerprint("")
	// MD5 of the empty string.
	want := "d41d8cd98f00b204e9800998ecf8427e"
	if got != want {
		t.Errorf("Fingerprint(\"\") = %q, want %q", got, want)
	}
}
