package secrets

import (
	"crypto/rand"
	"fmt"
)

// gf256Exp/gf256Log are lookup tables for GF(256) multiplication, using the
// AES-style polynomial 0x11b. Not present in any example repo or its
// dependency tree (shamir/sss/gf256 greps across the pack return nothing) —
// this is the same primitive HashiCorp Vault itself vendors rather than
// importing.
var (
	gf256Exp [255]byte
	gf256Log [256]byte
)

func init() {
	x := byte(1)

	for i := 0; i < 255; i++ {
		gf256Exp[i] = x
		gf256Log[x] = byte(i)

		x = gf256Mul(x, 3)
	}
}

func gf256Mul(a, b byte) byte {
	var p byte

	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			p ^= a
		}

		hi := a & 0x80
		a <<= 1

		if hi != 0 {
			a ^= 0x1b
		}

		b >>= 1
	}

	return p
}

func gf256MulTable(a, b byte) byte {
	if a == 0 || b == 0 {
		return 0
	}

	logSum := int(gf256Log[a]) + int(gf256Log[b])

	return gf256Exp[logSum%255]
}

func gf256Div(a, b byte) byte {
	if a == 0 {
		return 0
	}

	if b == 0 {
		panic("invariant violated: division by zero in GF(256)")
	}

	logDiff := (int(gf256Log[a]) - int(gf256Log[b]) + 255) % 255

	return gf256Exp[logDiff]
}

// ShamirSplit splits secret into n shares such that any k of them recover the
// secret (k-of-n threshold scheme over GF(256), evaluated byte-by-byte).
// pooly always calls this with k == n == 8 (see DESIGN.md Open Question 1),
// but the primitive itself is general.
func ShamirSplit(secret []byte, k, n int) ([][]byte, error) {
	if k < 1 || n < k || n > 255 {
		return nil, fmt.Errorf("invalid threshold parameters: k=%d n=%d", k, n)
	}

	shares := make([][]byte, n)
	for i := range shares {
		// byte 0 of each share is its x-coordinate (1..n); the rest mirrors
		// the secret length, one evaluated polynomial per secret byte.
		shares[i] = make([]byte, len(secret)+1)
		shares[i][0] = byte(i + 1)
	}

	coeffs := make([]byte, k)

	for byteIdx, secretByte := range secret {
		coeffs[0] = secretByte

		if _, err := rand.Read(coeffs[1:]); err != nil {
			return nil, fmt.Errorf("generating polynomial coefficients: %w", err)
		}

		for shareIdx := 0; shareIdx < n; shareIdx++ {
			x := byte(shareIdx + 1)
			shares[shareIdx][byteIdx+1] = evalPolynomial(coeffs, x)
		}
	}

	return shares, nil
}

func evalPolynomial(coeffs []byte, x byte) byte {
	result := byte(0)

	for i := len(coeffs) - 1; i >= 0; i-- {
		result = gf256MulTable(result, x) ^ coeffs[i]
	}

	return result
}

// ShamirCombine reconstructs the secret from at least k of the shares
// produced by ShamirSplit, via Lagrange interpolation at x=0.
func ShamirCombine(shares [][]byte) ([]byte, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("no shares supplied")
	}

	secretLen := len(shares[0]) - 1
	if secretLen < 0 {
		return nil, fmt.Errorf("malformed share: too short")
	}

	xs := make([]byte, len(shares))
	seen := make(map[byte]bool, len(shares))

	for i, share := range shares {
		if len(share) != secretLen+1 {
			return nil, fmt.Errorf("malformed share: length mismatch")
		}

		x := share[0]
		if x == 0 {
			return nil, fmt.Errorf("malformed share: zero x-coordinate")
		}

		if seen[x] {
			return nil, fmt.Errorf("duplicate share x-coordinate: %d", x)
		}

		seen[x] = true
		xs[i] = x
	}

	secret := make([]byte, secretLen)

	for byteIdx := 0; byteIdx < secretLen; byteIdx++ {
		secret[byteIdx] = lagrangeInterpolateZero(xs, shares, byteIdx)
	}

	return secret, nil
}

func lagrangeInterpolateZero(xs []byte, shares [][]byte, byteIdx int) byte {
	var result byte

	for i, xi := range xs {
		yi := shares[i][byteIdx+1]

		num := byte(1)
		den := byte(1)

		for j, xj := range xs {
			if i == j {
				continue
			}

			num = gf256MulTable(num, xj)
			den = gf256MulTable(den, xi^xj)
		}

		term := gf256MulTable(yi, gf256Div(num, den))
		result ^= term
	}

	return result
}
