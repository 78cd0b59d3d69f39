package domain

import "errors"

// Role is the closed set of portal roles, ordered lowest to highest
// privilege. Comparing roles goes through Level(), never through the raw
// string value.
type Role string

const (
	RoleNone          Role = "none"
	RoleMitglied      Role = "mitglied"
	RoleAlumni        Role = "alumni"
	RoleRessortleiter Role = "ressortleiter"
	RoleVorstand      Role = "vorstand"
	RoleAdmin         Role = "admin"
)

var ErrUnknownRole = errors.New("unknown role")

// roleLevels fixes the total order of the hierarchy. Built once; a role
// missing here is not a valid role.
var roleLevels = map[Role]int{
	RoleNone:          0,
	RoleMitglied:      1,
	RoleAlumni:        2,
	RoleRessortleiter: 3,
	RoleVorstand:      4,
	RoleAdmin:         5,
}

// Valid reports whether r is a member of the fixed hierarchy.
func (r Role) Valid() bool {
	_, ok := roleLevels[r]
	return ok
}

// Level returns the privilege rank of r, or -1 for an unknown role so that
// an unknown role never outranks anything.
func (r Role) Level() int {
	lvl, ok := roleLevels[r]
	if !ok {
		return -1
	}
	return lvl
}

// AtLeast reports whether r carries at least the privilege of required.
func (r Role) AtLeast(required Role) bool {
	return r.Level() >= required.Level()
}

// Action names a capability that can be granted to a role.
type Action string

const (
	ActionViewInventory   Action = "view_inventory"
	ActionManageInventory Action = "manage_inventory"
	ActionManageNews      Action = "manage_news"
	ActionManageEvents    Action = "manage_events"
	ActionViewMemberList  Action = "view_member_list"
	ActionManageMembers   Action = "manage_members"
)

// actionWildcard grants every action to a role.
const actionWildcard Action = "*"

// capabilities maps each role to its granted actions. Vorstand and admin
// hold the wildcard; view_inventory is additionally granted to every
// authenticated session in Can(), independent of this table.
var capabilities = map[Role][]Action{
	RoleMitglied:      {ActionViewMemberList},
	RoleAlumni:        {ActionViewMemberList},
	RoleRessortleiter: {ActionViewMemberList, ActionManageNews, ActionManageEvents, ActionManageInventory},
	RoleVorstand:      {actionWildcard},
	RoleAdmin:         {actionWildcard},
}

// Grants reports whether the capability table gives r the action. The
// view_inventory carve-out for authenticated sessions lives in the RBAC
// resolver, not here.
func (r Role) Grants(action Action) bool {
	for _, a := range capabilities[r] {
		if a == actionWildcard || a == action {
			return true
		}
	}
	return false
}
