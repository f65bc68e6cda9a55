package repository

import "testing"

func TestNewDB(t *testing.T) {
	tests := []struct {
		name    string
		dsn     string
		wantErr bool
	}{
		{"malformed dsn", "not-a-dsn", true},
		{"unreachable server", "user:pw@tcp(127.0.0.1:1)/jobsight?timeout=200ms", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := NewDB(tt.dsn)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewDB() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				if db == nil {
					t.Fatal("NewDB() returned nil pool without error")
				}
				db.Close()
			}
		})
	}
}
