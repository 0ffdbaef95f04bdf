package config

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/o-vuong/doggo-hotel/middleware"
	"github.com/o-vuong/doggo-hotel/services/logger"
)

// InitLogger tạo logger theo LOG_LEVEL, LOG_DIR; production ghi JSON
func InitLogger(cfg *Config) (*logger.LogrusLogger, error) {
	return logger.New(logger.Options{
		Level: logger.ParseLevel(cfg.LogLevel),
		JSON:  cfg.IsProduction(),
		Dir:   cfg.LogDir,
	})
}

// InitApp tạo gin engine với CORS và melody cho kênh vận hành
func InitApp(cfg *Config) (*gin.Engine, *melody.Melody) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	configCors.AddExposeHeaders(middleware.RequestIDHeader)
	configCors.AllowCredentials = true
	configCors.AllowAllOrigins = false
	if len(cfg.CORSOrigins) > 0 {
		configCors.AllowOrigins = cfg.CORSOrigins
	} else {
		configCors.AllowOriginFunc = func(origin string) bool {
			return true
		}
	}
	router.Use(cors.New(configCors))

	router.SetTrustedProxies(nil)

	m := melody.New()
	return router, m
}

// InitWebSocket gắn /ws vào routes (thường là group đã qua auth nhân viên)
func InitWebSocket(routes gin.IRoutes, m *melody.Melody, log logger.Logger) {
	m.HandleConnect(func(s *melody.Session) {
		log.Debug("websocket connected: %s", s.Request.RemoteAddr)
	})
	m.HandleError(func(s *melody.Session, err error) {
		log.Warn("websocket error: %v", err)
	})
	routes.GET("/ws", func(c *gin.Context) {
		if err := m.HandleRequest(c.Writer, c.Request); err != nil {
			log.Warn("websocket upgrade failed: %v", err)
		}
	})
	log.Info("WebSocket initialized successfully")
}
