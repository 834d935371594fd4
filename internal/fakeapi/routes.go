package fakeapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (s *Server) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(s.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(s.methodNotAllowedResponse)

	// Not require authentication for these routes
	router.HandlerFunc(http.MethodPost, "/api/auth/register", s.register)
	router.HandlerFunc(http.MethodPost, "/api/auth/login", s.login)
	router.HandlerFunc(http.MethodGet, "/api/blogs", s.listBlogs)
	// /api/blogs/my-blogs shares this route, httprouter does not allow a static sibling
	router.HandlerFunc(http.MethodGet, "/api/blogs/:id", s.getBlogOrMine)
	router.HandlerFunc(http.MethodGet, "/api/blogs/:id/comments", s.listComments)
	router.HandlerFunc(http.MethodGet, "/api/tags", s.allTags)
	router.HandlerFunc(http.MethodGet, "/api/tags/popular", s.popularTags)
	router.HandlerFunc(http.MethodGet, "/api/tags/search", s.searchTags)
	router.HandlerFunc(http.MethodGet, "/api/images/:name", s.getImage)

	// Require authentication for these routes
	router.HandlerFunc(http.MethodPost, "/api/auth/logout", s.requireAuthenticatedUser(s.logout))
	router.HandlerFunc(http.MethodPost, "/api/blogs", s.requireAuthenticatedUser(s.createBlog))
	router.HandlerFunc(http.MethodPut, "/api/blogs/:id", s.requireAuthenticatedUser(s.updateBlog))
	router.HandlerFunc(http.MethodDelete, "/api/blogs/:id", s.requireAuthenticatedUser(s.deleteBlog))
	router.HandlerFunc(http.MethodGet, "/api/blogs/:id/is-author", s.requireAuthenticatedUser(s.isAuthor))
	router.HandlerFunc(http.MethodPost, "/api/blogs/:id/comments", s.requireAuthenticatedUser(s.createComment))
	router.HandlerFunc(http.MethodPost, "/api/blogs/:id/images", s.requireAuthenticatedUser(s.uploadImage))
	router.HandlerFunc(http.MethodPut, "/api/comments/:id", s.requireAuthenticatedUser(s.updateComment))
	router.HandlerFunc(http.MethodDelete, "/api/comments/:id", s.requireAuthenticatedUser(s.deleteComment))
	router.HandlerFunc(http.MethodPost, "/api/tags", s.requireAuthenticatedUser(s.createTag))
	router.HandlerFunc(http.MethodDelete, "/api/images/:name", s.requireAuthenticatedUser(s.deleteImage))
	// /api/users/profile shares this route for the same reason as my-blogs
	router.HandlerFunc(http.MethodGet, "/api/users/:id", s.getUserOrProfile)
	router.HandlerFunc(http.MethodGet, "/api/users/:id/comments", s.userComments)
	router.HandlerFunc(http.MethodPut, "/api/users/profile", s.requireAuthenticatedUser(s.updateProfile))

	return router
}
