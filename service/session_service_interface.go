package service

// SessionServiceInterface defines the contract for renewal session management
type SessionServiceInterface interface {
	Create() (string, *RenewalForm)
	Get(id string) (*RenewalForm, error)
	Delete(id string) error
	Count() int
}
