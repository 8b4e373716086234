package tools

import (
	"context"
	"fmt"
	"strings"

	"shiftbot/backend/internal/sheets"
)

// trackingSheetGuide explains the Tracking worksheet's layout to the
// model: rows are sportsbook accounts, columns are customers, cells are
// per-customer task statuses.
const trackingSheetGuide = `STRUCTURE:
This is a cross-reference table where:
- ROWS = Sportsbook accounts (Fanduel, Bet365, betano, caesars, betway, draftkings, etc.)
- COLUMNS = Individual customer names (the column headers ARE the customer names)
- CELLS = Status of that customer's task for that specific sportsbook

First few columns provide sportsbook details:
- Column 1: Sportsbook name
- Column 2: DEPOSIT amount (e.g., $1000, $500, $2500)
- Column 3: METHOD (debit, etransfer, try debit first, etc.)
- Column 4: BET TYPE (RFB, LOWHOLD, baccarat, roulette, etc.)

Status vocabulary:
- "complete" / "done" = Task finished
- "ready" = Ready to proceed
- "verify" / "verifyfix" = Needs verification (fix)
- "signed up ready" = Account created, ready for deposit
- "vip" = VIP status achieved
- "1k", "1000", "500", etc. = Dollar amounts ready/pending
- "week 2", "week 3" = Timeline tracking
- "deposit" = Needs deposit
- EMPTY CELL = Not started yet, needs attention

INTERPRETATION RULES:
1. When asked about a customer's tasks, look at THAT CUSTOMER'S COLUMN across all sportsbook rows
2. Anything not "complete" or "done" needs attention
3. EMPTY CELLS mean the task has not been started yet
4. A customer may have multiple tasks (one per sportsbook row)`

// sheetGuides maps worksheet names to interpretation guides.
var sheetGuides = map[string]string{
	sheets.TrackingWorksheet: trackingSheetGuide,
}

// sheetRowLimit caps the rows handed to the model.
const sheetRowLimit = 50

func (e *Executor) executeFetchEmployeeSheet(ctx context.Context, execCtx *ExecutionContext, args map[string]interface{}) *ToolResult {
	employeeName := stringArg(args, "employee_name")
	worksheetName := stringArg(args, "worksheet_name")

	if employeeName == "" {
		return &ToolResult{Success: false, Error: "Error: employee_name is required"}
	}

	var employee string
	if strings.EqualFold(employeeName, "me") {
		if !e.dir.IsEmployee(execCtx.Username) {
			return &ToolResult{
				Success: false,
				Message: "You are not an employee, so you don't have a personal sheet.",
			}
		}
		employee = execCtx.Username
	} else {
		employee = e.dir.ResolveEmployeeName(employeeName)
		if employee == "" {
			return &ToolResult{
				Success: false,
				Message: fmt.Sprintf("I don't recognize '%s'. Available employees: %s",
					employeeName, strings.Join(e.dir.EmployeeNames(), ", ")),
			}
		}
	}

	result, err := e.sheets.FetchEmployeeSheet(ctx, employee, execCtx.Username, worksheetName)
	if err != nil {
		return &ToolResult{
			Success: false,
			Message: fmt.Sprintf("Could not fetch sheet for %s. Either the user doesn't exist or you don't have permission.", employeeName),
		}
	}

	if result.Worksheets != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "%s's spreadsheet has %d worksheets:\n", employeeName, len(result.Worksheets))
		for _, ws := range result.Worksheets {
			fmt.Fprintf(&b, "  • %s\n", ws)
		}
		b.WriteString("\nWhich worksheet would you like to see?")
		return &ToolResult{Success: true, Message: b.String()}
	}

	if len(result.Snapshot) == 0 {
		return &ToolResult{
			Success: true,
			Message: fmt.Sprintf("%s's sheet (worksheet: %s) is currently empty.", employeeName, result.WorksheetName),
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Sheet data for %s (worksheet: %s):\n\n", employeeName, result.WorksheetName)
	if guide := sheetGuides[result.WorksheetName]; guide != "" {
		fmt.Fprintf(&b, "SHEET GUIDE:\n%s\n\nDATA:\n", guide)
	}
	b.WriteString(sheets.FormatSnapshot(result.Snapshot, sheetRowLimit))

	return &ToolResult{Success: true, Message: b.String()}
}
