// Package api exposes the election services as a JSON API under /api and
// serves the browser client for everything else.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Alen-Aazim/noble-voting/database"
	"github.com/Alen-Aazim/noble-voting/election"
	"github.com/Alen-Aazim/noble-voting/logging"
	"github.com/Alen-Aazim/noble-voting/sse"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ResultsTopic is the SSE topic carrying fresh results after every change to
// the votes.
const ResultsTopic = "results"

// Services are the collaborators the routes call into.
type Services struct {
	Store    *database.Store
	Identity *election.Identity
	Catalog  *election.Catalog
	Gate     *election.Gate
	Ballot   *election.Ballot
	Tally    *election.Tally
}

// NewServices builds every election service on top of one store.
func NewServices(store *database.Store) Services {
	return Services{
		Store:    store,
		Identity: election.NewIdentity(store),
		Catalog:  election.NewCatalog(store),
		Gate:     election.NewGate(store),
		Ballot:   election.NewBallot(store),
		Tally:    election.NewTally(store),
	}
}

// messages maps the election failures to what the client shows the user.
var messages = map[error]string{
	election.ErrInvalidCredentials: "Invalid credentials",
	election.ErrDuplicateUsername:  "Username already exists",
	election.ErrInvalidRole:        "Invalid role",
	election.ErrAlreadyVoted:       "You have already voted",
	election.ErrInvalidCandidate:   "Invalid candidate",
	election.ErrVotingClosed:       "Voting is not active",
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type partyRequest struct {
	Name string `json:"name" binding:"required"`
}

type candidateRequest struct {
	Name  string `json:"name" binding:"required"`
	Party string `json:"party" binding:"required"`
}

type voteRequest struct {
	Username  string `json:"username" binding:"required"`
	Candidate string `json:"candidate" binding:"required"`
}

type userRequest struct {
	Username string        `json:"username" binding:"required"`
	Password string        `json:"password" binding:"required"`
	Role     election.Role `json:"role" binding:"omitempty,oneof=user admin"`
}

// userView is a User as sent over the wire; passwords never leave the server.
type userView struct {
	Username string        `json:"username"`
	Role     election.Role `json:"role"`
}

// NewRouter wires the API routes. Static client files are served from
// staticDir when it is not empty.
func NewRouter(svc Services, broker *sse.Broker, staticDir string) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(), recovery())

	r.GET("/healthz", func(c *gin.Context) {
		if err := svc.Store.Ping(c.Request.Context()); err != nil {
			logging.Logger.WithFields(logrus.Fields{"error": err, "module": "api", "method": "healthz"}).Error("store unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes := r.Group("/api")

	routes.POST("/login", func(c *gin.Context) {
		var req loginRequest
		if !bind(c, &req) {
			return
		}
		user, err := svc.Identity.Authenticate(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "role": user.Role})
	})

	routes.GET("/session", func(c *gin.Context) {
		session, err := svc.Gate.Get(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, session)
	})
	routes.POST("/session", func(c *gin.Context) {
		var req sessionRequest
		if !bind(c, &req) {
			return
		}
		if err := svc.Gate.Set(c.Request.Context(), *req.Active); err != nil {
			fail(c, err)
			return
		}
		succeed(c)
	})

	routes.GET("/parties", func(c *gin.Context) {
		parties, err := svc.Catalog.Parties(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, parties)
	})
	routes.POST("/parties", func(c *gin.Context) {
		var req partyRequest
		if !bind(c, &req) {
			return
		}
		if err := svc.Catalog.AddParty(c.Request.Context(), req.Name); err != nil {
			fail(c, err)
			return
		}
		succeed(c)
	})
	routes.DELETE("/parties/:name", func(c *gin.Context) {
		if err := svc.Catalog.DeleteParty(c.Request.Context(), c.Param("name")); err != nil {
			fail(c, err)
			return
		}
		succeed(c)
	})

	routes.GET("/candidates", func(c *gin.Context) {
		candidates, err := svc.Catalog.Candidates(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, candidates)
	})
	routes.POST("/candidates", func(c *gin.Context) {
		var req candidateRequest
		if !bind(c, &req) {
			return
		}
		if err := svc.Catalog.AddCandidate(c.Request.Context(), req.Name, req.Party); err != nil {
			fail(c, err)
			return
		}
		succeed(c)
	})
	routes.DELETE("/candidates/:name", func(c *gin.Context) {
		if err := svc.Catalog.DeleteCandidate(c.Request.Context(), c.Param("name")); err != nil {
			fail(c, err)
			return
		}
		succeed(c)
	})

	routes.GET("/parties-with-candidates", func(c *gin.Context) {
		grouped, err := svc.Catalog.PartiesWithCandidates(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, grouped)
	})

	routes.POST("/vote", func(c *gin.Context) {
		var req voteRequest
		if !bind(c, &req) {
			return
		}
		if err := svc.Ballot.Cast(c.Request.Context(), req.Username, req.Candidate); err != nil {
			fail(c, err)
			return
		}
		publishResults(c.Request.Context(), svc.Tally, broker)
		succeed(c)
	})

	routes.GET("/voters", func(c *gin.Context) {
		votes, err := svc.Ballot.Voters(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, votes)
	})

	routes.GET("/results", func(c *gin.Context) {
		results, err := svc.Tally.Compute(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, results)
	})

	routes.POST("/reset-votes", func(c *gin.Context) {
		if err := svc.Ballot.Reset(c.Request.Context()); err != nil {
			fail(c, err)
			return
		}
		publishResults(c.Request.Context(), svc.Tally, broker)
		succeed(c)
	})

	routes.GET("/users", func(c *gin.Context) {
		users, err := svc.Identity.List(c.Request.Context())
		if err != nil {
			fail(c, err)
			return
		}
		views := make([]userView, 0, len(users))
		for _, u := range users {
			views = append(views, userView{Username: u.Username, Role: u.Role})
		}
		c.JSON(http.StatusOK, views)
	})
	routes.POST("/users", func(c *gin.Context) {
		var req userRequest
		if !bind(c, &req) {
			return
		}
		if err := svc.Identity.Create(c.Request.Context(), req.Username, req.Password, req.Role); err != nil {
			fail(c, err)
			return
		}
		succeed(c)
	})
	routes.DELETE("/users/:username", func(c *gin.Context) {
		if err := svc.Identity.Delete(c.Request.Context(), c.Param("username")); err != nil {
			fail(c, err)
			return
		}
		succeed(c)
	})

	if broker != nil {
		routes.GET("/stream/:topic", broker.ServeHTTP)
	}

	files := http.NotFoundHandler()
	if staticDir != "" {
		files = http.FileServer(http.Dir(staticDir))
	}
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})

	return r
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return false
	}
	return true
}

func succeed(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// fail reports election failures as {success:false} with a 200 status, the
// way the client expects them. Anything else is a storage fault.
func fail(c *gin.Context, err error) {
	for target, msg := range messages {
		if errors.Is(err, target) {
			c.JSON(http.StatusOK, gin.H{"success": false, "message": msg})
			return
		}
	}

	logging.Logger.WithFields(logrus.Fields{"error": err, "module": "api", "method": c.HandlerName(), "request_id": c.GetString("requestID")}).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Internal server error"})
}

// publishResults pushes the current tally to stream subscribers. Failures are
// only logged; the change that triggered them is already committed.
func publishResults(ctx context.Context, tally *election.Tally, broker *sse.Broker) {
	if broker == nil {
		return
	}
	results, err := tally.Compute(ctx)
	if err != nil {
		logging.Logger.WithFields(logrus.Fields{"error": err, "module": "api", "method": "publishResults"}).Warn("could not compute results")
		return
	}
	broker.Publish(ResultsTopic, results)
}
