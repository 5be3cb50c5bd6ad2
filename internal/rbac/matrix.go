package rbac

// BookPermissions are the capabilities on the book catalog.
type BookPermissions struct {
	View         bool `json:"view"`
	Create       bool `json:"create"`
	Edit         bool `json:"edit"`
	Delete       bool `json:"delete"`
	ManageCopies bool `json:"manage_copies"`
}

// UserPermissions are the capabilities on identity management.
type UserPermissions struct {
	View        bool `json:"view"`
	Create      bool `json:"create"`
	Edit        bool `json:"edit"`
	Delete      bool `json:"delete"`
	ManageRoles bool `json:"manage_roles"`
}

// LoanPermissions are the capabilities on loans.
type LoanPermissions struct {
	View        bool `json:"view"`
	Create      bool `json:"create"`
	Edit        bool `json:"edit"`
	Delete      bool `json:"delete"`
	Extend      bool `json:"extend"`
	ForceReturn bool `json:"force_return"`
}

// ReservationPermissions are the capabilities on reservations.
type ReservationPermissions struct {
	View        bool `json:"view"`
	Create      bool `json:"create"`
	Edit        bool `json:"edit"`
	Delete      bool `json:"delete"`
	ManageQueue bool `json:"manage_queue"`
}

// ThesisPermissions are the capabilities on academic documents.
type ThesisPermissions struct {
	View   bool `json:"view"`
	Create bool `json:"create"`
	Edit   bool `json:"edit"`
	Delete bool `json:"delete"`
}

// SystemPermissions are the system administration capabilities.
type SystemPermissions struct {
	Settings      bool `json:"settings"`
	SyncDirectory bool `json:"sync_directory"`
	ManageBackups bool `json:"manage_backups"`
	ViewLogs      bool `json:"view_logs"`
}

// Matrix is the complete permission matrix of an identity.
// Every module and every capability is always present, a missing key never means false.
type Matrix struct {
	Books        BookPermissions        `json:"books"`
	Users        UserPermissions        `json:"users"`
	Loans        LoanPermissions        `json:"loans"`
	Reservations ReservationPermissions `json:"reservations"`
	Theses       ThesisPermissions      `json:"theses"`
	System       SystemPermissions      `json:"system"`
}

// Capability names addressable with Matrix.Allows, in module.action form.
const (
	CapBooksView           = "books.view"
	CapBooksCreate         = "books.create"
	CapBooksEdit           = "books.edit"
	CapBooksDelete         = "books.delete"
	CapBooksManageCopies   = "books.manage_copies"
	CapUsersView           = "users.view"
	CapUsersCreate         = "users.create"
	CapUsersEdit           = "users.edit"
	CapUsersDelete         = "users.delete"
	CapUsersManageRoles    = "users.manage_roles"
	CapLoansView           = "loans.view"
	CapLoansCreate         = "loans.create"
	CapLoansEdit           = "loans.edit"
	CapLoansDelete         = "loans.delete"
	CapLoansExtend         = "loans.extend"
	CapLoansForceReturn    = "loans.force_return"
	CapReservationsView    = "reservations.view"
	CapReservationsCreate  = "reservations.create"
	CapReservationsEdit    = "reservations.edit"
	CapReservationsDelete  = "reservations.delete"
	CapReservationsQueue   = "reservations.manage_queue"
	CapThesesView          = "theses.view"
	CapThesesCreate        = "theses.create"
	CapThesesEdit          = "theses.edit"
	CapThesesDelete        = "theses.delete"
	CapSystemSettings      = "system.settings"
	CapSystemSyncDirectory = "system.sync_directory"
	CapSystemManageBackups = "system.manage_backups"
	CapSystemViewLogs      = "system.view_logs"
)

// Capabilities returns every capability of the matrix keyed by module.action.
// The returned map always has the same set of keys.
func (m Matrix) Capabilities() map[string]bool {
	return map[string]bool{
		CapBooksView:           m.Books.View,
		CapBooksCreate:         m.Books.Create,
		CapBooksEdit:           m.Books.Edit,
		CapBooksDelete:         m.Books.Delete,
		CapBooksManageCopies:   m.Books.ManageCopies,
		CapUsersView:           m.Users.View,
		CapUsersCreate:         m.Users.Create,
		CapUsersEdit:           m.Users.Edit,
		CapUsersDelete:         m.Users.Delete,
		CapUsersManageRoles:    m.Users.ManageRoles,
		CapLoansView:           m.Loans.View,
		CapLoansCreate:         m.Loans.Create,
		CapLoansEdit:           m.Loans.Edit,
		CapLoansDelete:         m.Loans.Delete,
		CapLoansExtend:         m.Loans.Extend,
		CapLoansForceReturn:    m.Loans.ForceReturn,
		CapReservationsView:    m.Reservations.View,
		CapReservationsCreate:  m.Reservations.Create,
		CapReservationsEdit:    m.Reservations.Edit,
		CapReservationsDelete:  m.Reservations.Delete,
		CapReservationsQueue:   m.Reservations.ManageQueue,
		CapThesesView:          m.Theses.View,
		CapThesesCreate:        m.Theses.Create,
		CapThesesEdit:          m.Theses.Edit,
		CapThesesDelete:        m.Theses.Delete,
		CapSystemSettings:      m.System.Settings,
		CapSystemSyncDirectory: m.System.SyncDirectory,
		CapSystemManageBackups: m.System.ManageBackups,
		CapSystemViewLogs:      m.System.ViewLogs,
	}
}

// Allows reports whether the capability is granted. Unknown capabilities are denied.
func (m Matrix) Allows(capability string) bool {
	return m.Capabilities()[capability]
}

// fullMatrix grants everything.
func fullMatrix() Matrix {
	return Matrix{
		Books:        BookPermissions{View: true, Create: true, Edit: true, Delete: true, ManageCopies: true},
		Users:        UserPermissions{View: true, Create: true, Edit: true, Delete: true, ManageRoles: true},
		Loans:        LoanPermissions{View: true, Create: true, Edit: true, Delete: true, Extend: true, ForceReturn: true},
		Reservations: ReservationPermissions{View: true, Create: true, Edit: true, Delete: true, ManageQueue: true},
		Theses:       ThesisPermissions{View: true, Create: true, Edit: true, Delete: true},
		System:       SystemPermissions{Settings: true, SyncDirectory: true, ManageBackups: true, ViewLogs: true},
	}
}

func librarianMatrix() Matrix {
	return Matrix{
		Books:        BookPermissions{View: true, Create: true, Edit: true, ManageCopies: true},
		Users:        UserPermissions{View: true, Edit: true},
		Loans:        LoanPermissions{View: true, Create: true, Edit: true, Delete: true, Extend: true, ForceReturn: true},
		Reservations: ReservationPermissions{View: true, Create: true, Edit: true, Delete: true, ManageQueue: true},
		Theses:       ThesisPermissions{View: true, Create: true, Edit: true},
	}
}

func circulationMatrix() Matrix {
	return Matrix{
		Books:        BookPermissions{View: true},
		Users:        UserPermissions{View: true},
		Loans:        LoanPermissions{View: true, Create: true, Edit: true, Extend: true, ForceReturn: true},
		Reservations: ReservationPermissions{View: true, Create: true, Edit: true, Delete: true, ManageQueue: true},
		Theses:       ThesisPermissions{View: true},
	}
}

func registrationMatrix() Matrix {
	return Matrix{
		Books:        BookPermissions{View: true, Create: true, Edit: true},
		Users:        UserPermissions{View: true, Create: true, Edit: true},
		Loans:        LoanPermissions{View: true, Create: true, Edit: true, Extend: true},
		Reservations: ReservationPermissions{View: true, Create: true, Edit: true},
		Theses:       ThesisPermissions{View: true, Create: true, Edit: true},
	}
}

func endUserMatrix() Matrix {
	return Matrix{
		Books:        BookPermissions{View: true},
		Loans:        LoanPermissions{View: true},
		Reservations: ReservationPermissions{View: true, Create: true},
		Theses:       ThesisPermissions{View: true},
	}
}

// MatrixFor returns the canonical permission matrix of a role.
// Unknown roles get the end user matrix.
func MatrixFor(role Role) Matrix {
	switch role {
	case RoleAdmin:
		return fullMatrix()
	case RoleLibrarian:
		return librarianMatrix()
	case RoleCirculation:
		return circulationMatrix()
	case RoleRegistration:
		return registrationMatrix()
	default:
		return endUserMatrix()
	}
}
