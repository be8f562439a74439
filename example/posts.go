package main

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/dmitrymomot/anvil"
	"github.com/dmitrymomot/anvil/middlewares"
)

type post struct {
	ID     int    `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`
}

// postsController keeps posts in memory.
type postsController struct {
	mu    sync.RWMutex
	posts []post
}

func newPostsController() *postsController {
	return &postsController{}
}

func (p *postsController) Middleware() []anvil.ControllerMiddleware {
	return []anvil.ControllerMiddleware{
		{Token: "auth", Except: []string{"Index", "Show"}},
		{Token: "can:editor,admin", Only: []string{"Destroy"}},
		{Token: "throttle:10,1m", Only: []string{"Store"}},
	}
}

func (p *postsController) Index(c anvil.Context) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return c.JSON(http.StatusOK, p.posts)
}

func (p *postsController) Show(c anvil.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return anvil.ErrBadRequest("invalid post id")
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, item := range p.posts {
		if item.ID == id {
			return c.JSON(http.StatusOK, item)
		}
	}
	return anvil.ErrNotFound("post not found")
}

func (p *postsController) Store(c anvil.Context) error {
	title := c.Query("title")
	if title == "" {
		return anvil.ErrBadRequest("title is required")
	}
	author := ""
	if claims := middlewares.GetClaims(c); claims != nil {
		author = claims.Subject
	}

	p.mu.Lock()
	item := post{ID: len(p.posts) + 1, Title: title, Author: author}
	p.posts = append(p.posts, item)
	p.mu.Unlock()

	c.LogInfo("post created", "id", item.ID)
	return c.JSON(http.StatusCreated, item)
}

func (p *postsController) Destroy(c anvil.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return anvil.ErrBadRequest("invalid post id")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, item := range p.posts {
		if item.ID == id {
			p.posts = append(p.posts[:i], p.posts[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return anvil.ErrNotFound("post not found")
}

type routes struct {
	metrics http.Handler
}

func (r *routes) Routes(rt anvil.Router) {
	rt.Mount("/metrics", r.metrics)

	rt.GET("/", func(c anvil.Context) error {
		return c.String(http.StatusOK, "anvil example")
	}).Name("home")

	rt.Route("/posts", func(rt anvil.Router) {
		rt.Middleware("api")
		rt.Controller(http.MethodGet, "/", anvil.Action("posts", "Index")).Name("posts.index")
		rt.Controller(http.MethodPost, "/", anvil.Action("posts", "Store")).Name("posts.store")
		rt.Controller(http.MethodGet, "/{id}", anvil.Action("posts", "Show")).Name("posts.show")
		rt.Controller(http.MethodDelete, "/{id}", anvil.Action("posts", "Destroy")).Name("posts.destroy")
	})
}
