// auth.go resolves project credentials into the effective sending identity.

package gatey

import (
	"os"
	"strconv"
)

// Role identifies which credential type is authoritative for a client.
type Role string

const (
	// RoleServer means the server secret authenticates captures.
	RoleServer Role = "server"

	// RoleClient means the client secret authenticates captures.
	RoleClient Role = "client"
)

// Auth carries the project identity and secrets used to authenticate
// capture calls against the Gatey API.
type Auth struct {
	// ProjectID is the project identifier from the Gatey dashboard.
	ProjectID int64

	// ServerSecret is the server-side project secret. Takes precedence
	// over ClientSecret when both are set.
	ServerSecret string

	// ClientSecret is the client-side project secret. Used only when
	// ServerSecret is absent.
	ClientSecret string
}

// Credential is the resolved sending identity for a client.
type Credential struct {
	Role   Role
	Secret string
}

// AuthFromEnv builds Auth from the GATEY_PROJECT_ID, GATEY_SERVER_SECRET
// and GATEY_CLIENT_SECRET environment variables. Unset variables leave
// the corresponding field zero.
func AuthFromEnv() Auth {
	var auth Auth
	if raw := os.Getenv("GATEY_PROJECT_ID"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			auth.ProjectID = id
		}
	}
	auth.ServerSecret = os.Getenv("GATEY_SERVER_SECRET")
	auth.ClientSecret = os.Getenv("GATEY_CLIENT_SECRET")
	return auth
}

// Resolve computes the effective credential. The server secret always
// wins when both secrets are set; the client secret acts as the sender
// identity only when the server secret is absent. Returns a
// *ConfigurationError when neither secret is configured or the project
// ID is missing.
func (a Auth) Resolve() (Credential, error) {
	if a.ProjectID == 0 {
		return Credential{}, &ConfigurationError{Reason: "no project ID configured"}
	}
	if a.ServerSecret != "" {
		return Credential{Role: RoleServer, Secret: a.ServerSecret}, nil
	}
	if a.ClientSecret != "" {
		return Credential{Role: RoleClient, Secret: a.ClientSecret}, nil
	}
	return Credential{}, &ConfigurationError{Reason: "no server or client secret configured"}
}
