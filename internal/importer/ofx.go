package importer

import (
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/tally-dev/tally/internal/model"
)

// OFXParser parses OFX/QFX statement downloads, bank and credit card alike.
type OFXParser struct{}

var (
	severityRe = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)`)
	// SGML exports sometimes drop the closing bracket of a bare tag.
	openTagRe = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Format returns the parser name.
func (p *OFXParser) Format() string { return "ofx" }

// Parse reads an OFX document and returns one BankTransaction per statement line.
func (p *OFXParser) Parse(r io.Reader) ([]model.BankTransaction, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading OFX: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(cleanOFX(string(raw))))
	if err != nil {
		return nil, fmt.Errorf("parsing OFX: %w", err)
	}

	var txns []model.BankTransaction
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok && stmt.BankTranList != nil {
			rows, err := convertOFX(stmt.BankTranList.Transactions)
			if err != nil {
				return nil, fmt.Errorf("account %s: %w", stmt.BankAcctFrom.AcctID, err)
			}
			txns = append(txns, rows...)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok && stmt.BankTranList != nil {
			rows, err := convertOFX(stmt.BankTranList.Transactions)
			if err != nil {
				return nil, fmt.Errorf("card %s: %w", stmt.CCAcctFrom.AcctID, err)
			}
			txns = append(txns, rows...)
		}
	}
	return txns, nil
}

func cleanOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRe.ReplaceAllStringFunc(content, strings.ToUpper)
	return openTagRe.ReplaceAllString(content, "$1>")
}

func convertOFX(list []ofxgo.Transaction) ([]model.BankTransaction, error) {
	rows := make([]model.BankTransaction, 0, len(list))
	for _, t := range list {
		amount, err := decimal.NewFromString(t.TrnAmt.FloatString(2))
		if err != nil {
			return nil, fmt.Errorf("transaction %s: parsing amount: %w", t.FiTID, err)
		}
		y, m, d := t.DtPosted.Date()
		rows = append(rows, model.BankTransaction{
			Date:        time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
			Description: ofxDescription(t),
			Amount:      amount,
			Type:        t.TrnType.String(),
		})
	}
	return rows, nil
}

// ofxDescription prefers the payee, then the name, and appends the memo so
// category keywords in either field are visible to Convert.
func ofxDescription(t ofxgo.Transaction) string {
	desc := strings.TrimSpace(string(t.Name))
	if t.Payee != nil && t.Payee.Name != "" {
		desc = strings.TrimSpace(string(t.Payee.Name))
	}
	if memo := strings.TrimSpace(string(t.Memo)); memo != "" && memo != desc {
		if desc == "" {
			return memo
		}
		desc += " " + memo
	}
	return desc
}
