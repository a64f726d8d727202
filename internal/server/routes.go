package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func (s *Server) RegisterRoutes() http.Handler {

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{s.cfg.FrontendUrl},
		AllowCredentials: true,
	}))

	e.GET("/", s.HelloWorldHandler)
	e.GET("/health", s.healthHandler)

	// Auth
	e.GET("/auth/:provider", s.ProviderLoginHandler)
	e.GET("/auth/:provider/callback", s.AuthCallbackHandler)
	e.GET("/auth/logout/:provider", s.LogoutHandler)

	e.POST("/webhooks/identity", s.HandlerIdentityWebhook)
	e.DELETE("/admin/profiles", s.HandlerDeleteAllProfiles)

	api := e.Group("/api", s.SessionAuthMiddleware)

	// Profiles
	api.GET("/me", s.HandlerGetMe)
	api.PATCH("/me", s.HandlerUpdateMe)
	api.PUT("/me/status", s.HandlerUpdateStatus)
	api.GET("/me/servers", s.HandlerMyServers)
	api.GET("/profiles/:profileId", s.HandlerGetProfile)
	api.GET("/profiles/username/:username", s.HandlerGetProfileByUsername)
	api.POST("/profiles/batch", s.HandlerGetProfiles)

	// Friends
	api.GET("/friends", s.HandlerFriends)
	api.POST("/friends", s.HandlerAddFriend)
	api.POST("/friends/:friendshipId/accept", s.HandlerAcceptFriend)
	api.POST("/friends/:friendshipId/decline", s.HandlerDeclineFriend)
	api.DELETE("/friends/:friendshipId", s.HandlerDeleteFriend)
	api.GET("/notifications", s.HandlerNotifications)

	// Servers
	api.POST("/servers", s.HandlerCreateServer)
	api.GET("/servers/:serverId", s.HandlerGetServer)
	api.PATCH("/servers/:serverId", s.HandlerUpdateServer)
	api.DELETE("/servers/:serverId", s.HandlerDeleteServer)
	api.POST("/servers/:serverId/invite", s.HandlerRegenerateInvite)
	api.POST("/servers/:serverId/leave", s.HandlerLeaveServer)
	api.GET("/servers/:serverId/members", s.HandlerServerMembers)
	api.GET("/servers/:serverId/system-messages", s.HandlerSystemMessages)
	api.GET("/invites/:inviteCode", s.HandlerCheckInvitation)
	api.POST("/invites/:inviteCode/join", s.HandlerJoinServer)

	// Members
	api.PUT("/members/:memberId/role", s.HandlerChangeRole)
	api.DELETE("/members/:memberId", s.HandlerKickMember)

	// Channels
	api.GET("/servers/:serverId/channels", s.HandlerChannels)
	api.POST("/servers/:serverId/channels", s.HandlerCreateChannel)
	api.PATCH("/channels/:channelId", s.HandlerUpdateChannel)
	api.DELETE("/channels/:channelId", s.HandlerDeleteChannel)

	// Messages
	api.GET("/channels/:channelId/messages", s.HandlerTimeline)
	api.POST("/channels/:channelId/messages", s.HandlerSendMessage)
	api.PATCH("/messages/:messageId", s.HandlerEditMessage)
	api.DELETE("/messages/:messageId", s.HandlerDeleteMessage)

	api.GET("/conversations/:profileId", s.HandlerConversation)
	api.POST("/conversations/:profileId", s.HandlerSendDirectMessage)
	api.PATCH("/direct-messages/:messageId", s.HandlerEditDirectMessage)
	api.DELETE("/direct-messages/:messageId", s.HandlerDeleteDirectMessage)

	// Reports
	api.POST("/reports", s.HandlerCreateReport)
	api.GET("/servers/:serverId/reports", s.HandlerServerReports)
	api.GET("/servers/:serverId/reports/mine", s.HandlerMyReports)
	api.POST("/reports/:reportId/solve", s.HandlerSolveReport)
	api.DELETE("/reports/:reportId", s.HandlerDeleteReport)

	return e
}
