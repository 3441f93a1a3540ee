// Package refid generates the short human-facing reference codes printed on
// statements and receipts. Codes are not primary keys and need no
// cryptographic strength.
package refid

import "math/rand"

const digits = "0123456789"
const alnum = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func Loan() string    { return "LNE" + pick(digits, 10) }
func Account() string { return "ACC" + pick(digits, 8) }
func Txn() string     { return pick(alnum, 10) }
func Log() string     { return "LOG" + pick(digits, 8) }
func Report() string  { return "RPT" + pick(digits, 12) }
func Ticket() string  { return "TKT" + pick(digits, 8) }
func Officer() string { return "OFC" + pick(digits, 8) }
func Client() string  { return "CLT" + pick(digits, 8) }

func pick(charset string, length int) string {
	out := make([]byte, length)
	for i := range out {
		out[i] = charset[rand.Intn(len(charset))]
	}
	return string(out)
}
