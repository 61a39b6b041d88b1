package docs

import "strings"

var abbreviations = map[string]string{
	// Common BI shorthand
	"amt": "amount", "qty": "quantity", "cnt": "count", "avg": "average",
	"pct": "percent", "rev": "revenue", "cust": "customer", "prod": "product",
	"txn": "transaction", "cat": "category", "dt": "date", "yr": "year",
	"mth": "month", "wk": "week", "no": "number", "desc": "description",
	"std": "standard", "bal": "balance", "calc": "calculated",
	"ytd": "year to date", "mtd": "month to date", "qtd": "quarter to date",
	"yoy": "year over year", "mom": "month over month",
	"min": "minimum", "max": "maximum", "tot": "total", "grp": "group",
	"dept": "department", "emp": "employee", "ord": "order", "seq": "sequence",
}

// FriendlyLabel decodes a technical measure/column name into readable words
// for the business documentation. Abbreviation decoding is best-effort;
// unknown parts pass through unchanged.
func FriendlyLabel(name string) string {
	n := strings.ToLower(name)
	n = strings.ReplaceAll(n, "-", "_")
	n = strings.ReplaceAll(n, " ", "_")

	parts := strings.Split(n, "_")
	var decoded []string
	for _, part := range parts {
		if part == "" {
			continue
		}
		if full, ok := abbreviations[part]; ok {
			decoded = append(decoded, full)
		} else {
			decoded = append(decoded, part)
		}
	}
	return strings.Join(decoded, " ")
}

// Classify buckets a measure by keywords in its name and description
// (Korean/English). Used to group metrics in the business overview.
func Classify(name, description string) string {
	n := strings.ToLower(name)
	d := strings.ToLower(description)

	has := func(keywords ...string) bool {
		for _, k := range keywords {
			if strings.Contains(n, k) || strings.Contains(d, k) {
				return true
			}
		}
		return false
	}

	if has("매출", "수익", "revenue", "sales", "income") {
		return "Revenue"
	}
	if has("비용", "원가", "cost", "expense", "spend") {
		return "Cost"
	}
	if has("수량", "건수", "count", "cnt", "qty", "quantity", "volume") {
		return "Volume"
	}
	if has("비율", "율", "ratio", "rate", "percent", "margin", "%") {
		return "Ratio"
	}
	if has("일자", "날짜", "date", "ytd", "mtd", "period") {
		return "Time"
	}
	return "Other"
}
