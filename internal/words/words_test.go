package words

import (
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func pow2(n uint) *big.Int {
	return new(big.Int).Lsh(big.NewInt(1), n)
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

// =============================================================================
// HexWords Tests
// =============================================================================

func TestU_HexWords_Zero(t *testing.T) {
	got, err := HexWords(big.NewInt(0), 8, Checked)
	if err != nil {
		t.Fatalf("HexWords() error = %v", err)
	}
	if diff := cmp.Diff(repeat("0x00000000", 8), got); diff != "" {
		t.Errorf("HexWords(0) mismatch (-want +got):\n%s", diff)
	}
}

func TestU_HexWords_AllOnes(t *testing.T) {
	x := new(big.Int).Sub(pow2(256), big.NewInt(1))
	got, err := HexWords(x, 8, Checked)
	if err != nil {
		t.Fatalf("HexWords() error = %v", err)
	}
	if diff := cmp.Diff(repeat("0xffffffff", 8), got); diff != "" {
		t.Errorf("HexWords(2^256-1) mismatch (-want +got):\n%s", diff)
	}
}

func TestU_HexWords_LittleEndianOrder(t *testing.T) {
	x, _ := new(big.Int).SetString("0102030405060708090a0b0c0d0e0f10", 16)
	got, err := HexWords(x, 8, Checked)
	if err != nil {
		t.Fatalf("HexWords() error = %v", err)
	}
	want := []string{
		"0x0d0e0f10", "0x090a0b0c", "0x05060708", "0x01020304",
		"0x00000000", "0x00000000", "0x00000000", "0x00000000",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("HexWords() mismatch (-want +got):\n%s", diff)
	}
}

func TestU_HexWords_Format(t *testing.T) {
	got, err := HexWords(big.NewInt(1), 1, Checked)
	if err != nil {
		t.Fatalf("HexWords() error = %v", err)
	}
	if got[0] != "0x00000001" || len(got[0]) != 10 {
		t.Errorf("expected 0x00000001, got %q", got[0])
	}
}

func TestU_HexWords_OutOfRange(t *testing.T) {
	_, err := HexWords(pow2(256), 8, Checked)
	if !errors.Is(err, ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}
}

func TestU_HexWords_TruncateRSASignature(t *testing.T) {
	sig := new(big.Int).Add(pow2(3073), big.NewInt(0x1234))
	got, err := HexWords(sig, 96, Truncate)
	if err != nil {
		t.Fatalf("HexWords() error = %v", err)
	}
	if len(got) != 96 {
		t.Fatalf("expected 96 words, got %d", len(got))
	}
	if got[0] != "0x00001234" {
		t.Errorf("expected low word 0x00001234, got %s", got[0])
	}
	for i, w := range got[1:] {
		if w != "0x00000000" {
			t.Errorf("word %d = %s, expected 0x00000000", i+1, w)
		}
	}
}

func TestU_HexWords_TruncateMatchesModulus(t *testing.T) {
	sig := new(big.Int).Add(pow2(3073), pow2(3071))
	ws, err := Words(sig, 96, Truncate)
	if err != nil {
		t.Fatalf("Words() error = %v", err)
	}
	want := new(big.Int).Mod(sig, pow2(3072))
	if got := FromWords(ws); got.Cmp(want) != 0 {
		t.Errorf("truncated value = %x, want %x", got, want)
	}
}

func TestU_HexWords_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		x    *big.Int
		n    int
		want error
	}{
		{"[Unit] HexWords: negative", big.NewInt(-1), 8, ErrNegative},
		{"[Unit] HexWords: nil", nil, 8, ErrNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HexWords(tt.x, tt.n, Checked)
			if !errors.Is(err, tt.want) {
				t.Errorf("HexWords() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := HexWords(big.NewInt(1), 0, Checked); err == nil {
		t.Error("expected error for zero word count")
	}
}

func TestU_Words_DoesNotModifyInput(t *testing.T) {
	x := new(big.Int).Sub(pow2(200), big.NewInt(3))
	before := new(big.Int).Set(x)
	if _, err := Words(x, 8, Checked); err != nil {
		t.Fatalf("Words() error = %v", err)
	}
	if x.Cmp(before) != 0 {
		t.Error("Words() modified its input")
	}
}

func TestU_Words_RoundTrip(t *testing.T) {
	for _, n := range []int{1, 8, 96} {
		limit := pow2(uint(WordBits * n))
		for i := 0; i < 50; i++ {
			x, err := rand.Int(rand.Reader, limit)
			if err != nil {
				t.Fatalf("rand.Int() error = %v", err)
			}
			ws, err := Words(x, n, Checked)
			if err != nil {
				t.Fatalf("Words(n=%d) error = %v", n, err)
			}
			if got := FromWords(ws); got.Cmp(x) != 0 {
				t.Fatalf("round trip n=%d: got %x, want %x", n, got, x)
			}
		}
	}
}

func TestU_Policy_String(t *testing.T) {
	if Checked.String() != "checked" || Truncate.String() != "truncate" {
		t.Errorf("unexpected policy names: %s, %s", Checked, Truncate)
	}
	if !strings.HasPrefix(Policy(7).String(), "Policy(") {
		t.Errorf("unexpected name for unknown policy: %s", Policy(7))
	}
}

// =============================================================================
// MessageBytes Tests
// =============================================================================

func TestU_MessageBytes(t *testing.T) {
	tests := []struct {
		name    string
		msg     *big.Int
		length  int
		want    []byte
		wantErr error
	}{
		{"[Unit] MessageBytes: single byte", big.NewInt(0x41), 1, []byte{0x41}, nil},
		{"[Unit] MessageBytes: left padded", big.NewInt(0x4142), 4, []byte{0x00, 0x00, 0x41, 0x42}, nil},
		{"[Unit] MessageBytes: zero in one byte", big.NewInt(0), 1, []byte{0x00}, nil},
		{"[Unit] MessageBytes: empty", big.NewInt(0), 0, []byte{}, nil},
		{"[Unit] MessageBytes: too short", big.NewInt(0x4142), 1, nil, ErrMessageLength},
		{"[Unit] MessageBytes: nonzero in zero bytes", big.NewInt(1), 0, nil, ErrMessageLength},
		{"[Unit] MessageBytes: negative msg", big.NewInt(-1), 1, nil, ErrNegative},
		{"[Unit] MessageBytes: negative length", big.NewInt(0), -1, nil, ErrNegative},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MessageBytes(tt.msg, tt.length)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("MessageBytes() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("MessageBytes() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("MessageBytes() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
