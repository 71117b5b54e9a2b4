package domain

import "fmt"

// Resolve merges classifier suggestions with explicit user overrides into a
// complete RoleMapping. An override always wins. Without one, the suggestion
// is used; failing that, mandatory roles fall back to the first column and
// optional roles to NoColumn, so the pipeline can always proceed.
func Resolve(columns []string, suggested, overrides RoleMapping) (RoleMapping, error) {
	if len(columns) == 0 {
		return nil, ErrNoColumns
	}
	known := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		known[c] = struct{}{}
	}

	out := make(RoleMapping, len(Roles))
	for _, role := range Roles {
		if choice, ok := overrides[role]; ok && choice != "" {
			if choice == NoColumn {
				if !role.Optional() {
					return nil, fmt.Errorf("%s: %w", role, ErrRoleRequired)
				}
				out[role] = NoColumn
				continue
			}
			if _, ok := known[choice]; !ok {
				return nil, fmt.Errorf("%s column %q: %w", role, choice, ErrUnknownColumn)
			}
			out[role] = choice
			continue
		}
		out[role] = defaultChoice(role, columns, suggested)
	}
	return out, nil
}

func defaultChoice(role Role, columns []string, suggested RoleMapping) string {
	if col, ok := suggested.Column(role); ok {
		return col
	}
	if role.Optional() {
		return NoColumn
	}
	return columns[0]
}

// Choices lists the options a selector for role should offer. Optional roles
// always include NoColumn first.
func Choices(columns []string, role Role) []string {
	if !role.Optional() {
		return append([]string(nil), columns...)
	}
	out := make([]string, 0, len(columns)+1)
	out = append(out, NoColumn)
	return append(out, columns...)
}
