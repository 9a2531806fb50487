package upload

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		files    []FileMeta
		wantKeys map[string]bool
	}{
		{
			"valid batch",
			[]FileMeta{
				{FileName: "screenshot.png", MimeType: "image/png", SizeBytes: 2048},
				{FileName: "report.pdf", MimeType: "application/pdf", SizeBytes: 4096},
			},
			nil,
		},
		{
			"mime type case folds",
			[]FileMeta{{FileName: "a.png", MimeType: "IMAGE/PNG", SizeBytes: 10}},
			nil,
		},
		{
			"disallowed type keyed by file name",
			[]FileMeta{{FileName: "tool.exe", MimeType: "application/x-msdownload", SizeBytes: 10}},
			map[string]bool{"tool.exe": true},
		},
		{
			"empty file rejected",
			[]FileMeta{{FileName: "a.txt", MimeType: "text/plain", SizeBytes: 0}},
			map[string]bool{"a.txt": true},
		},
		{
			"oversized file rejected",
			[]FileMeta{{FileName: "big.zip", MimeType: "application/zip", SizeBytes: MaxFileSizeBytes + 1}},
			map[string]bool{"big.zip": true},
		},
		{
			"missing name keyed as files",
			[]FileMeta{{FileName: "  ", MimeType: "text/plain", SizeBytes: 10}},
			map[string]bool{"files": true},
		},
		{
			"too many files keyed as files",
			[]FileMeta{
				{FileName: "1.txt", MimeType: "text/plain", SizeBytes: 1},
				{FileName: "2.txt", MimeType: "text/plain", SizeBytes: 1},
				{FileName: "3.txt", MimeType: "text/plain", SizeBytes: 1},
				{FileName: "4.txt", MimeType: "text/plain", SizeBytes: 1},
				{FileName: "5.txt", MimeType: "text/plain", SizeBytes: 1},
				{FileName: "6.txt", MimeType: "text/plain", SizeBytes: 1},
			},
			map[string]bool{"files": true},
		},
		{
			"mixed batch reports each offender",
			[]FileMeta{
				{FileName: "ok.png", MimeType: "image/png", SizeBytes: 10},
				{FileName: "bad.bin", MimeType: "application/octet-stream", SizeBytes: 10},
				{FileName: "empty.txt", MimeType: "text/plain", SizeBytes: 0},
			},
			map[string]bool{"bad.bin": true, "empty.txt": true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Validate(tt.files)
			if tt.wantKeys == nil {
				if got != nil {
					t.Fatalf("Validate() = %v, want nil", got)
				}
				return
			}
			if len(got) != len(tt.wantKeys) {
				t.Fatalf("Validate() = %v, want keys %v", got, tt.wantKeys)
			}
			for key := range tt.wantKeys {
				if _, ok := got[key]; !ok {
					t.Fatalf("missing problem for %q in %v", key, got)
				}
			}
		})
	}
}

func TestAllowed(t *testing.T) {
	if !Allowed("image/jpeg") {
		t.Fatal("image/jpeg should be allowed")
	}
	if !Allowed("TEXT/CSV") {
		t.Fatal("allow-list should fold case")
	}
	if Allowed("video/mp4") {
		t.Fatal("video/mp4 should be rejected")
	}
}
