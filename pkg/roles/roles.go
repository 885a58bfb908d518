package roles

type Role string

const (
	User    Role = "user"
	Planner Role = "planner"
	Admin   Role = "admin"
)

type HierarchyLevel int

const (
	UserLevel    HierarchyLevel = 1
	PlannerLevel HierarchyLevel = 2
	AdminLevel   HierarchyLevel = 3
)

func (r Role) GetHierarchyLevel() HierarchyLevel {
	switch r {
	case User:
		return UserLevel
	case Planner:
		return PlannerLevel
	case Admin:
		return AdminLevel
	default:
		return UserLevel
	}
}

// HasPermission reports whether the role satisfies the required role.
func (r Role) HasPermission(requiredRole Role) bool {
	return r.GetHierarchyLevel() >= requiredRole.GetHierarchyLevel()
}

func (r Role) IsValid() bool {
	switch r {
	case User, Planner, Admin:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	return string(r)
}
