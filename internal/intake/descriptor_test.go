package intake

import (
	"testing"

	"github.com/nguyentantai21042004/meeting-minutes/internal/apperr"
)

func TestParseDescriptor(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     Descriptor
		wantErr  bool
	}{
		{
			name:     "simple",
			filename: "Bob_Standup.wav",
			want:     Descriptor{Filename: "Bob_Standup.wav", Speaker: "Bob", SessionID: "Standup", Ext: ".wav"},
		},
		{
			name:     "session keeps later underscores",
			filename: "Amy_Weekly_Sync.WEBM",
			want:     Descriptor{Filename: "Amy_Weekly_Sync.WEBM", Speaker: "Amy", SessionID: "Weekly_Sync", Ext: ".webm"},
		},
		{name: "no underscore", filename: "standalone.mp4", wantErr: true},
		{name: "empty speaker", filename: "_Standup.mp4", wantErr: true},
		{name: "empty session", filename: "Bob_.mp4", wantErr: true},
		{name: "unsupported extension", filename: "Bob_Standup.txt", wantErr: true},
		{name: "path traversal", filename: "../Bob_Standup.wav", wantErr: true},
		{name: "hidden session", filename: "Bob_.hidden.wav", wantErr: true},
		{name: "empty", filename: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDescriptor(tt.filename)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDescriptor(%q) = %+v, want error", tt.filename, got)
				}
				if apperr.KindOf(err) != apperr.KindValidation {
					t.Errorf("KindOf() = %q, want validation", apperr.KindOf(err))
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDescriptor(%q) error = %v", tt.filename, err)
			}
			if got != tt.want {
				t.Errorf("ParseDescriptor(%q) = %+v, want %+v", tt.filename, got, tt.want)
			}
		})
	}
}
