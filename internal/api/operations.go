package api

type operation struct {
	name     string
	fallback string
	// anonymous operations never carry the bearer token
	anonymous bool
}

var (
	opLogin         = operation{name: "login", fallback: "Login failed", anonymous: true}
	opRegister      = operation{name: "register", fallback: "Registration failed", anonymous: true}
	opLogout        = operation{name: "logout", fallback: "Logout failed"}
	opListBlogs     = operation{name: "list_blogs", fallback: "Failed to fetch blogs"}
	opMyBlogs       = operation{name: "my_blogs", fallback: "Failed to fetch your blogs"}
	opGetBlog       = operation{name: "get_blog", fallback: "Failed to fetch blog"}
	opCreateBlog    = operation{name: "create_blog", fallback: "Failed to create blog"}
	opUpdateBlog    = operation{name: "update_blog", fallback: "Failed to update blog"}
	opDeleteBlog    = operation{name: "delete_blog", fallback: "Failed to delete blog"}
	opIsAuthor      = operation{name: "is_author", fallback: "Failed to check blog author"}
	opListComments  = operation{name: "list_comments", fallback: "Failed to fetch comments"}
	opCreateComment = operation{name: "create_comment", fallback: "Failed to create comment"}
	opUpdateComment = operation{name: "update_comment", fallback: "Failed to update comment"}
	opDeleteComment = operation{name: "delete_comment", fallback: "Failed to delete comment"}
	opUserComments  = operation{name: "user_comments", fallback: "Failed to fetch user comments"}
	opAllTags       = operation{name: "all_tags", fallback: "Failed to fetch tags"}
	opPopularTags   = operation{name: "popular_tags", fallback: "Failed to fetch popular tags"}
	opSearchTags    = operation{name: "search_tags", fallback: "Failed to search tags"}
	opCreateTag     = operation{name: "create_tag", fallback: "Failed to create tag"}
	opGetProfile    = operation{name: "get_profile", fallback: "Failed to fetch profile"}
	opGetUser       = operation{name: "get_user", fallback: "Failed to fetch user profile"}
	opUpdateProfile = operation{name: "update_profile", fallback: "Failed to update profile"}
	opUploadImage   = operation{name: "upload_image", fallback: "Failed to upload image"}
	opDeleteImage   = operation{name: "delete_image", fallback: "Failed to delete image"}
)
