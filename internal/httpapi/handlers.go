package httpapi

import (
	"net/http"
	"time"

	portalAuth "github.com/leanda/portalAuth"
	"github.com/leanda/portalAuth/middleware"
)

type registerRequest struct {
	Email     string       `json:"email"`
	Password  string       `json:"password"`
	FullName  string       `json:"fullName"`
	StudentID string       `json:"studentId"`
	Course    string       `json:"course"`
	Year      *flexibleInt `json:"year"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type profileUpdateRequest struct {
	FullName  *string      `json:"fullName"`
	StudentID *string      `json:"studentId"`
	Course    *string      `json:"course"`
	Year      *flexibleInt `json:"year"`
}

type userSummary struct {
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

type registerResponse struct {
	Message string      `json:"message"`
	User    userSummary `json:"user"`
}

type loginResponse struct {
	Token     string `json:"token"`
	Email     string `json:"email"`
	FullName  string `json:"fullName"`
	StudentID string `json:"studentId"`
	Course    string `json:"course"`
	Year      int    `json:"year"`
}

type profileResponse struct {
	ID        int64     `json:"id"`
	FullName  string    `json:"fullName"`
	Email     string    `json:"email"`
	StudentID string    `json:"studentId"`
	Course    string    `json:"course"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type profileUpdateResponse struct {
	Message string          `json:"message"`
	User    profileResponse `json:"user"`
}

type dashboardResponse struct {
	Message string `json:"message"`
	User    struct {
		FullName string `json:"fullName"`
		Course   string `json:"course"`
		Year     int    `json:"year"`
	} `json:"user"`
	Stats struct {
		TotalCourses         int `json:"totalCourses"`
		CompletedAssignments int `json:"completedAssignments"`
		UpcomingEvents       int `json:"upcomingEvents"`
	} `json:"stats"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Registration failed: "+errInvalidBody.Error())
		return
	}

	in := portalAuth.RegisterRequest{
		Email:     req.Email,
		FullName:  req.FullName,
		Password:  req.Password,
		StudentID: req.StudentID,
		Course:    req.Course,
	}
	if y := req.Year.intPtr(); y != nil {
		in.Year = *y
	}

	res := s.engine.Register(r.Context(), in)
	if err := res.Error(); err != nil {
		writeError(w, statusFor(err), "Registration failed: "+clientMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, registerResponse{
		Message: "Registration successful",
		User:    userSummary{Email: res.Account.Email, FullName: res.Account.FullName},
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Login failed: "+errInvalidBody.Error())
		return
	}

	res := s.engine.Login(r.Context(), req.Email, req.Password)
	if err := res.Error(); err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			writeError(w, http.StatusInternalServerError, "Login failed: "+clientMessage(err))
			return
		}
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	a := res.Account
	writeJSON(w, http.StatusOK, loginResponse{
		Token:     res.Token,
		Email:     a.Email,
		FullName:  a.FullName,
		StudentID: a.StudentID,
		Course:    a.Course,
		Year:      a.Year,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := middleware.BearerToken(r.Header.Get("Authorization"))
	if !ok {
		writeError(w, http.StatusBadRequest, "Logout failed: invalid token")
		return
	}

	res := s.engine.Logout(r.Context(), token)
	if err := res.Error(); err != nil {
		if statusFor(err) == http.StatusInternalServerError {
			writeError(w, http.StatusInternalServerError, "Logout failed: "+clientMessage(err))
			return
		}
		writeError(w, http.StatusBadRequest, "Logout failed: invalid token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := s.engine.Profile(r.Context(), id.Email)
	if err != nil {
		writeError(w, statusFor(err), "Failed to fetch profile: "+clientMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, profileBody(view))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req profileUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Failed to update profile: "+errInvalidBody.Error())
		return
	}

	view, err := s.engine.UpdateProfile(r.Context(), id.Email, portalAuth.ProfileUpdate{
		FullName:  req.FullName,
		StudentID: req.StudentID,
		Course:    req.Course,
		Year:      req.Year.intPtr(),
	})
	if err != nil {
		writeError(w, statusFor(err), "Failed to update profile: "+clientMessage(err))
		return
	}
	writeJSON(w, http.StatusOK, profileUpdateResponse{
		Message: "Profile updated successfully",
		User:    profileBody(view),
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	d, err := s.engine.Dashboard(r.Context(), id.Email)
	if err != nil {
		writeError(w, statusFor(err), "Failed to fetch dashboard: "+clientMessage(err))
		return
	}

	var resp dashboardResponse
	resp.Message = d.Message
	resp.User.FullName = d.User.FullName
	resp.User.Course = d.User.Course
	resp.User.Year = d.User.Year
	resp.Stats.TotalCourses = d.Stats.TotalCourses
	resp.Stats.CompletedAssignments = d.Stats.CompletedAssignments
	resp.Stats.UpcomingEvents = d.Stats.UpcomingEvents
	writeJSON(w, http.StatusOK, resp)
}

func profileBody(v portalAuth.AccountView) profileResponse {
	return profileResponse{
		ID:        v.ID,
		FullName:  v.FullName,
		Email:     v.Email,
		StudentID: v.StudentID,
		Course:    v.Course,
		Year:      v.Year,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}
