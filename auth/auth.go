package auth

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"velore/globals"
	"velore/middleware"
	"velore/models"
	"velore/persist"
	"velore/recordapi"
	"velore/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 12 * time.Hour

// Handlers implements admin login. Credentials are checked against the
// record API first; a built-in admin from the environment keeps the
// dashboard reachable when the record API is down.
type Handlers struct {
	Store  persist.Substrate
	Remote *recordapi.Client

	once          sync.Once
	fallbackEmail string
	fallbackHash  []byte
}

func NewHandlers(store persist.Substrate, remote *recordapi.Client) *Handlers {
	return &Handlers{Store: store, Remote: remote}
}

func (h *Handlers) initFallback() {
	h.fallbackEmail = envOr("ADMIN_EMAIL", "admin@velore.com")
	if hash := os.Getenv("ADMIN_PASSWORD_HASH"); hash != "" {
		h.fallbackHash = []byte(hash)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(envOr("ADMIN_PASSWORD", "admin123")), bcrypt.DefaultCost)
	if err != nil {
		log.Println("auth: hashing fallback password:", err)
		return
	}
	h.fallbackHash = hash
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates an admin and opens a session.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.once.Do(h.initFallback)

	var input loginInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))
	if input.Email == "" || input.Password == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, ok := h.lookup(r, input)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	if user.Role != "admin" {
		utils.RespondWithError(w, http.StatusForbidden, "Admin access required")
		return
	}

	token, err := issueToken(user)
	if err != nil {
		log.Println("Login: signing token:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}

	if err := persist.Save(h.Store, persist.KeyAdminLoggedIn, true); err != nil {
		log.Println("Login: persisting session flag:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}
	if err := persist.Save(h.Store, persist.KeyAdminUser, user); err != nil {
		log.Println("Login: persisting session user:", err)
		utils.RespondWithError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, utils.M{"token": token, "user": user})
}

// lookup resolves credentials to an admin user, trying the record API
// before the environment fallback.
func (h *Handlers) lookup(r *http.Request, input loginInput) (models.AdminUser, bool) {
	if h.Remote != nil {
		found, err := h.Remote.FindUser(r.Context(), input.Email, input.Password)
		if err != nil {
			log.Println("Login: record API unreachable, trying fallback admin:", err)
		} else if found != nil {
			return models.AdminUser{
				ID:    found.ID,
				Email: found.Email,
				Name:  found.Name,
				Role:  found.Role,
			}, true
		}
	}

	if input.Email == h.fallbackEmail && len(h.fallbackHash) > 0 &&
		bcrypt.CompareHashAndPassword(h.fallbackHash, []byte(input.Password)) == nil {
		return models.AdminUser{ID: 0, Email: h.fallbackEmail, Name: "Store Admin", Role: "admin"}, true
	}
	return models.AdminUser{}, false
}

func issueToken(user models.AdminUser) (string, error) {
	claims := &middleware.Claims{
		Email:  user.Email,
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// Logout closes the admin session.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	persist.Remove(h.Store, persist.KeyAdminLoggedIn)
	persist.Remove(h.Store, persist.KeyAdminUser)
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"ok": true})
}

// Session reports whether an admin session is open and for whom.
func (h *Handlers) Session(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	loggedIn, _ := persist.Load[bool](h.Store, persist.KeyAdminLoggedIn)
	if !loggedIn {
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"isAdminLoggedIn": false})
		return
	}
	user, ok := persist.Load[models.AdminUser](h.Store, persist.KeyAdminUser)
	if !ok {
		// flag without a user record: treat the session as closed
		persist.Remove(h.Store, persist.KeyAdminLoggedIn)
		utils.RespondWithJSON(w, http.StatusOK, utils.M{"isAdminLoggedIn": false})
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"isAdminLoggedIn": true, "user": user})
}
