package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteSuffixNew is the suffix for "new" routes.
	RouteSuffixNew = "/new"
	// RouteSuffixUpload is the suffix for upload routes.
	RouteSuffixUpload = "/upload"
	// RouteSuffixDelete is the suffix for delete confirmation routes.
	RouteSuffixDelete = "/delete"
	// RouteSuffixFeature is the suffix for featured toggle routes.
	RouteSuffixFeature = "/feature"
	// RouteSuffixPopular is the suffix for popular toggle routes.
	RouteSuffixPopular = "/popular"
	// RouteSuffixPublish is the suffix for publish toggle routes.
	RouteSuffixPublish = "/publish"
	// RouteSuffixSuggest is the suffix for the AI suggestion route.
	RouteSuffixSuggest = "/suggest"

	// RouteParamID is the ID parameter pattern.
	RouteParamID = "/{id}"

	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteRegister is the registration route.
	RouteRegister = "/register"

	// RouteProjects is the projects admin route.
	RouteProjects = "/projects"
	// RouteServices is the services admin route.
	RouteServices = "/services"
	// RoutePosts is the blog posts admin route.
	RoutePosts = "/posts"
	// RouteContacts is the contact submissions admin route.
	RouteContacts = "/contacts"
	// RouteUsers is the admin users route.
	RouteUsers = "/users"
	// RouteMedia is the media admin route.
	RouteMedia = "/media"
	// RouteEvents is the event log admin route.
	RouteEvents = "/events"

	// RouteProjectsID is the projects ID route pattern.
	RouteProjectsID = RouteProjects + RouteParamID
	// RouteServicesID is the services ID route pattern.
	RouteServicesID = RouteServices + RouteParamID
	// RoutePostsID is the blog posts ID route pattern.
	RoutePostsID = RoutePosts + RouteParamID
	// RouteContactsID is the contact submissions ID route pattern.
	RouteContactsID = RouteContacts + RouteParamID
	// RouteUsersID is the admin users ID route pattern.
	RouteUsersID = RouteUsers + RouteParamID
	// RouteMediaID is the media ID route pattern.
	RouteMediaID = RouteMedia + RouteParamID
)

const (
	redirectAdmin            = "/admin"
	redirectLogin            = redirectAdmin + RouteLogin
	redirectRegister         = redirectAdmin + RouteRegister
	redirectAdminProjects    = redirectAdmin + RouteProjects
	redirectAdminProjectsNew = redirectAdminProjects + RouteSuffixNew
	redirectAdminServices    = redirectAdmin + RouteServices
	redirectAdminServicesNew = redirectAdminServices + RouteSuffixNew
	redirectAdminPosts       = redirectAdmin + RoutePosts
	redirectAdminPostsNew    = redirectAdminPosts + RouteSuffixNew
	redirectAdminContacts    = redirectAdmin + RouteContacts
	redirectAdminUsers       = redirectAdmin + RouteUsers
	redirectAdminUsersNew    = redirectAdminUsers + RouteSuffixNew
	redirectAdminMedia       = redirectAdmin + RouteMedia
	redirectAdminEvents      = redirectAdmin + RouteEvents
	redirectContact          = "/contact"

	redirectAdminProjectsID = redirectAdminProjects + "/%d"
	redirectAdminServicesID = redirectAdminServices + "/%d"
	redirectAdminPostsID    = redirectAdminPosts + "/%d"
	redirectAdminContactsID = redirectAdminContacts + "/%d"
	redirectAdminUsersID    = redirectAdminUsers + "/%d"
)
