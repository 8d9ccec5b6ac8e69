package csvio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tally-dev/tally/internal/aggregate"
	"github.com/tally-dev/tally/internal/catalog"
	"github.com/tally-dev/tally/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sample() []model.Transaction {
	return []model.Transaction{
		{ID: "b", Date: model.NewDate(2025, time.March, 15), Name: "Rent, flat 4", Description: "basic", Amount: dec("1234.5"), Type: model.TypeExpense},
		{ID: "a", Date: model.NewDate(2025, time.March, 1), Name: "Salary", Description: "full_time", Amount: dec("5000"), Type: model.TypeIncome},
		{ID: "c", Date: model.NewDate(2025, time.March, 20), Name: `Say "hi"`, Description: "wants", Amount: dec("9.99"), Type: model.TypeExpense},
	}
}

func report(t *testing.T) string {
	t.Helper()
	txns := sample()
	var buf bytes.Buffer
	err := Write(&buf, Report{
		Summary:      aggregate.Summarize(txns, 2025, time.March, "savings"),
		Transactions: txns,
		Currency:     "USD",
		Labels:       catalog.Default("en"),
	})
	require.NoError(t, err)
	return buf.String()
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Financial-Report-March-2025.csv", FileName(2025, time.March))
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"9.99", "9.99"},
		{"1234.5", "1,234.50"},
		{"1234567.891", "1,234,567.89"},
		{"-3765.49", "-3,765.49"},
		{"-0.5", "-0.50"},
		{"-0.001", "0.00"},
		{"999.995", "1,000.00"},
		{"12345678901234567.89", "12,345,678,901,234,567.89"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(dec(tt.in)))
		})
	}
}

func TestWrite_Layout(t *testing.T) {
	out := report(t)
	require.True(t, strings.HasPrefix(out, "\ufeff"))

	lines := strings.Split(strings.TrimPrefix(out, "\ufeff"), "\n")
	assert.Equal(t, "Financial report for: March 2025", lines[0])
	assert.Equal(t, "Total income: 5,000.00 USD", lines[1])
	assert.Equal(t, "Total expenses: 1,244.49 USD", lines[2])
	assert.Equal(t, "Balance: 3,755.51 USD", lines[3])
	assert.Equal(t, "", lines[4])
	assert.Equal(t, Header, lines[5])
	assert.Equal(t, "2025-03-01,Salary,Full-time,\"5,000.00\",Income", lines[6])
	assert.Equal(t, "2025-03-15,\"Rent, flat 4\",Basic,\"1,234.50\",Expense", lines[7])
	assert.Equal(t, "2025-03-20,\"Say \"\"hi\"\"\",Wants,9.99,Expense", lines[8])
}

func TestRoundTrip(t *testing.T) {
	cats := catalog.Default("en")
	res, err := Read(strings.NewReader(report(t)), cats)
	require.NoError(t, err)
	assert.Empty(t, res.Skipped)
	require.Len(t, res.Transactions, 3)

	byName := map[string]model.Transaction{}
	for _, txn := range res.Transactions {
		byName[txn.Name] = txn
	}
	for _, want := range sample() {
		got, ok := byName[want.Name]
		require.True(t, ok, "missing %q", want.Name)
		assert.Equal(t, want.Date.String(), got.Date.String())
		assert.Equal(t, want.Description, got.Description)
		assert.Equal(t, want.Type, got.Type)
		assert.True(t, want.Amount.Equal(got.Amount), "%s: %s != %s", want.Name, want.Amount, got.Amount)
		assert.Empty(t, got.ID)
		assert.Empty(t, got.RecurringKey)
		assert.False(t, got.IsRecurring)
	}
}

func TestRead_SkipsBadRows(t *testing.T) {
	in := strings.Join([]string{
		"anything before is ignored",
		Header,
		"2025-03-01,Salary,Full-time,5000,Income",
		"2025-03-02,Mystery,No Such Label,10,Expense",
		"2025-03-03,Short,Wants",
		"2025-03-04,,Wants,10,Expense",
		"2025-03-05,Free,Wants,0,Expense",
		"not-a-date,Bad,Wants,10,Expense",
		"2025-03-06,Bad amount,Wants,ten,Expense",
		"2025-03-07,Coffee,Wants,\"4,50\",Expense",
	}, "\n")

	res, err := Read(strings.NewReader(in), catalog.Default("en"))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 2)
	assert.Equal(t, "Salary", res.Transactions[0].Name)
	assert.True(t, res.Transactions[1].Amount.Equal(dec("4.50")))

	var lines []int
	for _, s := range res.Skipped {
		lines = append(lines, s.Line)
	}
	assert.Equal(t, []int{4, 5, 6, 7, 8, 9}, lines)
	assert.Contains(t, res.Skipped[0].Reason, "No Such Label")
}

func TestRead_CategoryMustMatchKind(t *testing.T) {
	in := strings.Join([]string{
		Header,
		"2025-03-01,Salary,Full-time,100,Expense",
		"2025-03-02,Snack,wants,5,Income",
		"2025-03-03,Bonus,Full-time,100,Income",
	}, "\n")

	res, err := Read(strings.NewReader(in), catalog.Default("en"))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "Bonus", res.Transactions[0].Name)

	require.Len(t, res.Skipped, 2)
	assert.Equal(t, 2, res.Skipped[0].Line)
	assert.Contains(t, res.Skipped[0].Reason, "not an expense category")
	assert.Equal(t, 3, res.Skipped[1].Line)
	assert.Contains(t, res.Skipped[1].Reason, `unknown category "wants"`)
}

func TestRoundTrip_LargeAmount(t *testing.T) {
	large := dec("12345678901234567.89")
	var buf bytes.Buffer
	err := Write(&buf, Report{
		Transactions: []model.Transaction{
			{Date: model.NewDate(2025, time.March, 1), Name: "Windfall", Description: "additional", Amount: large, Type: model.TypeIncome},
		},
		Labels: catalog.Default("en"),
	})
	require.NoError(t, err)
	assert.Contains(t, buf.String(), `"12,345,678,901,234,567.89"`)

	res, err := Read(&buf, catalog.Default("en"))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.True(t, res.Transactions[0].Amount.Equal(large), "got %s", res.Transactions[0].Amount)
}

func TestRead_AcceptsCategoryKeys(t *testing.T) {
	in := Header + "\n2025-03-01,Gym,wants,30,Expense\n"
	res, err := Read(strings.NewReader(in), catalog.Default("en"))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, "wants", res.Transactions[0].Description)
}

func TestRead_NonIncomeKindIsExpense(t *testing.T) {
	in := Header + "\n2025-03-01,Gym,Wants,30,whatever\n"
	res, err := Read(strings.NewReader(in), catalog.Default("en"))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, model.TypeExpense, res.Transactions[0].Type)
}

func TestRead_CRLF(t *testing.T) {
	in := "\ufeffFinancial report for: March 2025\r\n\r\n" + Header + "\r\n2025-03-01,Salary,Full-time,\"1,000.00\",Income\r\n"
	res, err := Read(strings.NewReader(in), catalog.Default("en"))
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.True(t, res.Transactions[0].Amount.Equal(dec("1000")))
}

func TestRead_Failures(t *testing.T) {
	_, err := Read(strings.NewReader("Date;Name;Type\n1;2;3\n"), catalog.Default("en"))
	assert.ErrorIs(t, err, ErrHeaderNotFound)

	res, err := Read(strings.NewReader(Header+"\n2025-03-01,X,Nope,1,Expense\n"), catalog.Default("en"))
	assert.ErrorIs(t, err, ErrNoRows)
	assert.Len(t, res.Skipped, 1)

	_, err = Read(strings.NewReader(Header+"\n"), catalog.Default("en"))
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1234.56", "1234.56", false},
		{"1,234.56", "1234.56", false},
		{"1.234,56", "1234.56", false},
		{"1.234.567,8", "1234567.8", false},
		{"1,234,567.89", "1234567.89", false},
		{"1,2.3,4", "", true},
		{"12,5", "12.5", false},
		{"12,50", "12.50", false},
		{"1,234", "1234", false},
		{"1,234,567", "1234567", false},
		{" 1 000 ", "1000", false},
		{"abc", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func TestParseDate(t *testing.T) {
	for _, in := range []string{"2025-03-07", "2025/03/07", "03/07/2025", "2025-03-07T10:00:00Z"} {
		t.Run(in, func(t *testing.T) {
			d, err := ParseDate(in)
			require.NoError(t, err)
			assert.Equal(t, "2025-03-07", d.String())
		})
	}
	_, err := ParseDate("7 March")
	assert.Error(t, err)
}
