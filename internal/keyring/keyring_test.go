package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestSetGetDelete(t *testing.T) {
	gokeyring.MockInit()

	for _, account := range []Account{DatabaseConnection, RedisPassword} {
		t.Run(string(account), func(t *testing.T) {
			if err := Set(account, "secret-"+string(account)); err != nil {
				t.Fatalf("Set() error = %v", err)
			}
			got, err := Get(account)
			if err != nil {
				t.Fatalf("Get() error = %v", err)
			}
			if got != "secret-"+string(account) {
				t.Errorf("Get() = %q", got)
			}
			if err := Delete(account); err != nil {
				t.Fatalf("Delete() error = %v", err)
			}
			if _, err := Get(account); !errors.Is(err, ErrNotFound) {
				t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
			}
			if err := Delete(account); !errors.Is(err, ErrNotFound) {
				t.Errorf("second Delete() error = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSetEmpty(t *testing.T) {
	gokeyring.MockInit()
	if err := Set(DatabaseConnection, ""); err == nil {
		t.Error("Set() with empty secret should fail")
	}
}

func TestUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus"))
	defer gokeyring.MockInit()

	if _, err := Get(DatabaseConnection); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("Get() error = %v, want ErrKeyringUnavailable", err)
	}
	if IsAvailable() {
		t.Error("IsAvailable() = true with failing keyring")
	}
}

func TestParseAccount(t *testing.T) {
	tests := []struct {
		in      string
		want    Account
		wantErr bool
	}{
		{"db", DatabaseConnection, false},
		{"database", DatabaseConnection, false},
		{"redis", RedisPassword, false},
		{"smtp", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAccount(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseAccount(%q) = %q, %v", tt.in, got, err)
		}
	}
}
