package listing

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeListing(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []Entry
		dropped int
		wantErr bool
	}{
		{name: "empty directory", body: `[]`, want: []Entry{}},
		{
			name: "fractional mtime is truncated",
			body: `[{"name":"a","is_dir":false,"size":3,"mtime":12.9}]`,
			want: []Entry{{Name: "a", Size: 3, ModifiedAt: 12}},
		},
		{
			name: "directory may omit size",
			body: `[{"name":"src","is_dir":true,"mtime":7}]`,
			want: []Entry{{Name: "src", IsDir: true, ModifiedAt: 7}},
		},
		{
			name:    "name with separator is dropped",
			body:    `[{"name":"a/b","is_dir":false,"size":1,"mtime":1},{"name":"c","is_dir":true,"mtime":1}]`,
			want:    []Entry{{Name: "c", IsDir: true, ModifiedAt: 1}},
			dropped: 1,
		},
		{
			name:    "empty name and negative size are dropped",
			body:    `[{"name":"","is_dir":false,"size":1,"mtime":1},{"name":"x","is_dir":false,"size":-1,"mtime":1}]`,
			want:    []Entry{},
			dropped: 2,
		},
		{
			name:    "file without size or mtime is dropped",
			body:    `[{"name":"a.txt","is_dir":false},{"name":"b.txt","is_dir":false,"mtime":1},{"name":"c.txt","is_dir":false,"size":2,"mtime":3}]`,
			want:    []Entry{{Name: "c.txt", Size: 2, ModifiedAt: 3}},
			dropped: 2,
		},
		{
			name:    "directory without mtime is dropped",
			body:    `[{"name":"src","is_dir":true,"size":0}]`,
			want:    []Entry{},
			dropped: 1,
		},
		{name: "null body", body: `null`, wantErr: true},
		{name: "trailing data", body: `[] []`, wantErr: true},
		{name: "object instead of array", body: `{"name":"a"}`, wantErr: true},
		{name: "truncated json", body: `[{"name":`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped, err := DecodeListing(strings.NewReader(tt.body))
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dropped, dropped)
			assert.Equal(t, tt.want, got)
		})
	}
}
