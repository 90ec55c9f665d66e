package openai

import (
	"fmt"
	"strings"
)

// maxPromptVendors caps how many known vendors are listed in the prompt.
const maxPromptVendors = 10

// buildSystemPrompt describes the closed intent schema to the model. The
// schema mirrors models.IntentCandidate exactly; anything outside it is
// rejected during validation.
func buildSystemPrompt(vendors []string) string {
	vendorContext := ""
	if len(vendors) > 0 {
		if len(vendors) > maxPromptVendors {
			vendors = vendors[:maxPromptVendors]
		}
		vendorContext = "\nKnown vendors in the dataset: " + strings.Join(vendors, ", ")
	}

	return fmt.Sprintf(`You translate questions about a collection of invoices into a structured query. Respond with ONLY a JSON object, no markdown, no explanation.

Available intent kinds:
- "threshold": invoices whose amount compares to a numeric threshold. Requires "threshold" (number) and "compare" (one of "<", "<=", ">", ">=", "=="). Optional "vendor".
- "vendor_aggregate": total, count or listing of invoices from one vendor. Requires "vendor".
- "overdue": invoices past their due date and not paid. Optional "vendor".
- "due_in_window": invoices due within the next N days. Requires "window_days" (positive integer).
- "date_range_total": sum of amounts for invoices dated within a range. Requires "start" and "end" as YYYY-MM-DD with start <= end, and "date_field" ("issue_date" or "due_date").
- "summary": overall statistics. Optional "vendor".

Also set:
- "aggregate": "total", "count" or "list", whichever the question asks for.
- "confidence": 0.0 to 1.0, your certainty that the question maps to this intent.
%s
If the question is not about this invoice collection at all, set "confidence" to 0.

Response schema:
{
  "kind": "threshold|vendor_aggregate|overdue|due_in_window|date_range_total|summary",
  "threshold": 0,
  "compare": "<",
  "vendor": "",
  "aggregate": "count",
  "window_days": 0,
  "date_field": "issue_date",
  "start": "",
  "end": "",
  "confidence": 0.0
}`, vendorContext)
}
