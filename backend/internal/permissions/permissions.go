// Package permissions implements role-based access control for employee
// tracking sheets. Roles are derived from membership in the directory
// tables rather than stored anywhere: admins are listed explicitly,
// employees are anyone with a sheet, everyone else is a plain user.
package permissions

import "strings"

// Role is a user's access level.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
	RoleUser     Role = "user"
)

// Directory maps Discord identities to employee metadata. All keys are
// Discord usernames except FriendlyNames, which is keyed by the short
// name the team uses in conversation.
type Directory struct {
	// Admins can read any employee's sheet.
	Admins []string

	// FriendlyNames maps a lowercase friendly name to a Discord username.
	FriendlyNames map[string]string

	// DiscordIDs maps a Discord username to a numeric user ID, used for
	// proper @mentions in reminders.
	DiscordIDs map[string]string

	// Sheets maps a Discord username to a Google spreadsheet ID. Having
	// an entry here is what makes someone an employee.
	Sheets map[string]string
}

// Default returns the team's current directory.
func Default() *Directory {
	return &Directory{
		Admins: []string{
			"alexthegreat2642",
			"asapjoshy",
		},
		FriendlyNames: map[string]string{
			"mitchell": "darcmeho",
			"granger":  "dillongranger22",
			"ignacio":  "ignacioz1313",
			"conner":   "connersfc",
		},
		DiscordIDs: map[string]string{
			"ignacioz1313":    "1342566697248358420",
			"dillongranger22": "1256306269988323380",
			"darcmeho":        "771822969810321418",
			"connersfc":       "235906007509893121",
		},
		Sheets: map[string]string{
			"darcmeho":        "1XLVpu-3LbX38tvj9FJDpnKAin7gjQZ6t6XaiykMwfRs",
			"dillongranger22": "13bvsI75T_tDuobO-QhjgbL0N6FEDHViFkM2-YS0RJgw",
			"ignacioz1313":    "1FgJtIF0HktbXJPCxOnJP5zu9rbD9IX7Js9dfKQimLlY",
			"connersfc":       "10YUZf91bHEMOvzXRvLm4ud2t0JazNUR5bfqgiP5Y69Q",
		},
	}
}

// ResolveEmployeeName resolves a friendly name or Discord username to a
// Discord username. Returns "" when the name matches nobody.
func (d *Directory) ResolveEmployeeName(name string) string {
	if name == "" {
		return ""
	}
	lower := strings.ToLower(strings.TrimSpace(name))

	if username, ok := d.FriendlyNames[lower]; ok {
		return username
	}
	for username := range d.Sheets {
		if strings.ToLower(username) == lower {
			return username
		}
	}
	return ""
}

// RoleOf determines a user's role from the directory tables.
func (d *Directory) RoleOf(username string) Role {
	if d.IsAdmin(username) {
		return RoleAdmin
	}
	if d.IsEmployee(username) {
		return RoleEmployee
	}
	return RoleUser
}

// IsAdmin reports whether the username is in the admin list.
func (d *Directory) IsAdmin(username string) bool {
	for _, admin := range d.Admins {
		if admin == username {
			return true
		}
	}
	return false
}

// IsEmployee reports whether the username has a tracking sheet.
func (d *Directory) IsEmployee(username string) bool {
	_, ok := d.Sheets[username]
	return ok
}

// SheetID returns the spreadsheet ID for an employee, or "" for
// non-employees.
func (d *Directory) SheetID(username string) string {
	return d.Sheets[username]
}

// DiscordID returns the numeric Discord user ID for an employee, or ""
// when unknown.
func (d *Directory) DiscordID(username string) string {
	return d.DiscordIDs[username]
}

// FriendlyName returns the friendly name for an employee username, or ""
// when none is registered.
func (d *Directory) FriendlyName(username string) string {
	for friendly, u := range d.FriendlyNames {
		if u == username {
			return friendly
		}
	}
	return ""
}

// EmployeeNames returns all registered friendly names.
func (d *Directory) EmployeeNames() []string {
	names := make([]string, 0, len(d.FriendlyNames))
	for friendly := range d.FriendlyNames {
		names = append(names, friendly)
	}
	return names
}

// CanAccessSheet checks whether requester may read target's sheet and
// returns the sheet ID when allowed. An empty target means the
// requester's own sheet. Admins can read any employee sheet; employees
// only their own.
func (d *Directory) CanAccessSheet(requester, target string) (bool, string) {
	if target == "" {
		target = requester
	}

	if d.IsAdmin(requester) {
		id, ok := d.Sheets[target]
		return ok, id
	}
	if requester == target {
		id, ok := d.Sheets[requester]
		return ok, id
	}
	return false, ""
}

// AccessibleEmployees lists the employee usernames whose sheets the
// given user may read.
func (d *Directory) AccessibleEmployees(username string) []string {
	if d.IsAdmin(username) {
		out := make([]string, 0, len(d.Sheets))
		for u := range d.Sheets {
			out = append(out, u)
		}
		return out
	}
	if d.IsEmployee(username) {
		return []string{username}
	}
	return nil
}
