package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"bloodbank/pkg/auth"
	"bloodbank/pkg/config"
)

type Server struct {
	db  *gorm.DB
	cfg *config.Config
	log *zap.Logger
}

func New(db *gorm.DB, cfg *config.Config, log *zap.Logger) *Server {
	return &Server{db: db, cfg: cfg, log: log}
}

func (s *Server) Router() *gin.Engine {
	if !s.cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	r.GET("/", s.index)
	r.POST("/login", s.login)
	r.GET("/logout", s.logout)
	r.POST("/register_donor", s.registerDonor)

	r.GET("/dashboard_admin", s.dashboardAdmin)
	r.POST("/add_donor", s.addDonor)
	r.GET("/approve_request/:id", s.approveRequest)
	r.GET("/approve_donation/:id", s.approveDonation)
	r.GET("/donor_list", s.donorList)

	r.GET("/dashboard_donor", s.dashboardDonor)
	r.POST("/add_donation", s.addDonation)

	r.GET("/dashboard_hospital", s.dashboardHospital)
	r.POST("/add_request", s.addRequest)
	r.GET("/request_blood", s.requestBlood)

	r.GET("/manage/health", s.healthCheck)

	return r
}

// sessionFrom extracts the session identity from the request cookie, if any.
func (s *Server) sessionFrom(c *gin.Context) (*auth.Session, bool) {
	tokenString, err := c.Cookie(auth.CookieName)
	if err != nil {
		return nil, false
	}
	sess, err := auth.ParseToken(s.cfg.SecretKey, tokenString)
	if err != nil {
		return nil, false
	}
	return sess, true
}

// requireSession rejects callers without a valid session. "Not logged in"
// is reported distinctly from a wrong-role denial.
func (s *Server) requireSession(c *gin.Context) (*auth.Session, bool) {
	sess, ok := s.sessionFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Please log in to access this page.",
		})
		return nil, false
	}
	return sess, true
}

// requireRole rejects callers without a session or with a mismatched role.
func (s *Server) requireRole(c *gin.Context, role string) (*auth.Session, bool) {
	sess, ok := s.requireSession(c)
	if !ok {
		return nil, false
	}
	if sess.Role != role {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": "Access denied",
		})
		return nil, false
	}
	return sess, true
}

func (s *Server) index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "Blood Bank Management System",
		"roles":   []string{auth.RoleAdmin, auth.RoleDonor, auth.RoleHospital},
	})
}

func (s *Server) healthCheck(c *gin.Context) {
	sqlDB, err := s.db.DB()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database connection failed",
			"error":   err.Error(),
		})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "Database ping failed",
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
