package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/o-vuong/doggo-hotel/errors"
	"github.com/o-vuong/doggo-hotel/models"
	"github.com/o-vuong/doggo-hotel/repository"
	"github.com/o-vuong/doggo-hotel/response"
	"github.com/o-vuong/doggo-hotel/services/logger"
	"github.com/o-vuong/doggo-hotel/services/notification"
)

type notifyRequest struct {
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,max=2000"`
}

// NotificationController gửi thông báo từ nhân viên tới kênh vận hành hoặc chủ thú cưng
type NotificationController struct {
	repo     repository.Repository
	notifier notification.Notifier
	operator notification.Service
	logger   logger.Logger
}

type NotificationControllerOptions struct {
	Repo     repository.Repository
	Notifier notification.Notifier
	Operator notification.Service
	Logger   logger.Logger
}

func NewNotificationController(opts NotificationControllerOptions) *NotificationController {
	return &NotificationController{
		repo:     opts.Repo,
		notifier: opts.Notifier,
		operator: opts.Operator,
		logger:   opts.Logger,
	}
}

// NotifyAll đẩy tin nhắn tới mọi nhân viên đang mở websocket
func (nc *NotificationController) NotifyAll(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	if !principal.Can(models.ActionNotifyUsers, "") {
		response.Forbidden(c)
		return
	}
	var req notifyRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := nc.operator.SendMessage(req.Message); err != nil {
		nc.logger.Error("broadcast from %s failed: %v", principal.UserID, err)
		response.FromError(c, errors.External("could not broadcast message", err))
		return
	}
	response.Success(c, gin.H{"message": req.Message})
}

// NotifyUser gửi email hoặc SMS tới user theo địa chỉ liên lạc của họ
func (nc *NotificationController) NotifyUser(c *gin.Context) {
	principal, ok := currentPrincipal(c)
	if !ok {
		return
	}
	if !principal.Can(models.ActionNotifyUsers, "") {
		response.Forbidden(c)
		return
	}
	var req notifyRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := nc.repo.GetUser(c.Request.Context(), c.Param("userID"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	subject := req.Subject
	if subject == "" {
		subject = "Message from Doggo Hotel"
	}
	recipient := user.ContactAddress()
	if err := nc.notifier.Notify(c.Request.Context(), recipient, subject, req.Message); err != nil {
		nc.logger.Warn("notify user %s failed: %v", user.ID, err)
		response.FromError(c, errors.External("could not deliver message", err))
		return
	}
	response.Success(c, gin.H{"userId": user.ID, "recipient": recipient})
}
