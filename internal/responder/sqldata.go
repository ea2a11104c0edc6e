package responder

import (
	"context"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"askgate/internal/chart"
	"askgate/internal/llm"
	"askgate/internal/models"
)

// DefaultSalesSchema describes the demo warehouse the SQL prompt is scoped to.
const DefaultSalesSchema = `sales(
  sale_id,
  product_name,
  quantity,
  unit_price,
  sale_date,
  customer_name
)`

const sqlRowCap = 20

// SQLResponder has the LLM author a single read-only query against the
// structured-data backend, then returns either a tabular row set or a
// rendered chart, both as tagged JSON the envelope codec recognizes.
type SQLResponder struct {
	llm       llm.Completer
	db        *sql.DB
	schemaDoc string
}

func NewSQLResponder(completer llm.Completer, db *sql.DB, schemaDoc string) *SQLResponder {
	if schemaDoc == "" {
		schemaDoc = DefaultSalesSchema
	}
	return &SQLResponder{llm: completer, db: db, schemaDoc: schemaDoc}
}

func (r *SQLResponder) Generate(ctx context.Context, query string, _ []models.Message) (string, error) {
	completion, err := r.llm.Complete(ctx, r.buildPrompt(query))
	if err != nil {
		return fmt.Sprintf("SQL error: %v", err), nil
	}

	stmt := extractSQL(completion)
	if stmt == "" || !strings.HasPrefix(strings.ToLower(stmt), "select") {
		return "Invalid SQL generated.", nil
	}

	cols, rows, err := r.execute(ctx, stmt)
	if err != nil {
		return fmt.Sprintf("SQL error: %v", err), nil
	}

	if len(rows) == 0 {
		return encodeRows(nil), nil
	}

	if wantsChart(query) {
		png, err := chart.Render(chart.KindFromQuery(query), cols, rows)
		if err != nil {
			return fmt.Sprintf("Chart error: %v", err), nil
		}
		return encodeImage(png), nil
	}

	return encodeRows(rows), nil
}

func (r *SQLResponder) buildPrompt(question string) string {
	return fmt.Sprintf(`You are a senior SQL analyst.

Task:
Generate ONLY ONE valid SQL SELECT query to answer the user question.
Do NOT provide explanations, notes, or commentary.
Do NOT use markdown formatting or backticks.

Schema:
%s

IMPORTANT SQL RULES:
1. Output must be a single SELECT statement only.
2. Use LIMIT %d when the query returns a list of rows (non-aggregated results).
3. Do NOT use LIKE with partial string matches.
4. Never assume or invent any data values (e.g., regions, product names, dates).
5. Do NOT add filters the question did not ask for.
6. Use joins only when necessary to answer the question.
7. If the question requires a date filter, use the provided date range explicitly.
8. Do NOT include ORDER BY unless explicitly requested.
9. Do NOT use subqueries unless required.
10. Do not reference columns or tables not present in the schema.
11. If the question is ambiguous, choose the simplest valid interpretation that matches the schema.
12. If the question cannot be answered with the provided schema, output a query that returns zero rows, using a safe condition like WHERE 1=0.

Question: %s
`, r.schemaDoc, sqlRowCap, question)
}

var selectPattern = regexp.MustCompile(`(?is)(select\s.*?)(?:;|\z)`)

// extractSQL pulls the first SELECT statement out of the LLM completion,
// which may carry stray prose despite the prompt.
func extractSQL(completion string) string {
	match := selectPattern.FindStringSubmatch(completion)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}

// execute runs the statement and scans every row into a column-keyed map,
// preserving the result's column order for the chart heuristics.
func (r *SQLResponder) execute(ctx context.Context, stmt string) ([]string, []map[string]any, error) {
	rows, err := r.db.QueryContext(ctx, stmt)
	if err != nil {
		return nil, nil, fmt.Errorf("run query: %w", err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, fmt.Errorf("read columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(cols))
		scanTargets := make([]any, len(cols))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(map[string]any, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate rows: %w", err)
	}
	return cols, out, nil
}

var visualizationKeywords = []string{"graph", "chart", "visual", "plot"}

func wantsChart(question string) bool {
	q := strings.ToLower(question)
	for _, k := range visualizationKeywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}

func encodeRows(rows []map[string]any) string {
	if rows == nil {
		rows = []map[string]any{}
	}
	data, err := json.Marshal(map[string]any{
		"type": "sql_result",
		"data": rows,
	})
	if err != nil {
		return fmt.Sprintf("SQL error: encode result: %v", err)
	}
	return string(data)
}

func encodeImage(png []byte) string {
	data, err := json.Marshal(map[string]any{
		"type": "image",
		"data": base64.StdEncoding.EncodeToString(png),
	})
	if err != nil {
		return fmt.Sprintf("Chart error: encode image: %v", err)
	}
	return string(data)
}
