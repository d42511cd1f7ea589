package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("clave", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "clave" {
		t.Fatal("plaintext stored")
	}
	if err := ComparePassword(hash, "clave"); err != nil {
		t.Fatalf("compare: %v", err)
	}
	if err := ComparePassword(hash, "otra"); err == nil {
		t.Fatal("wrong password accepted")
	}
	if err := ComparePassword("", "clave"); err == nil {
		t.Fatal("empty hash accepted")
	}
}
