package routes

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/c14220110/poliklinik-antrian/config"
	adminControllers "github.com/c14220110/poliklinik-antrian/internal/administrasi/controllers"
	adminServices "github.com/c14220110/poliklinik-antrian/internal/administrasi/services"
	antrianControllers "github.com/c14220110/poliklinik-antrian/internal/antrian/controllers"
	antrianServices "github.com/c14220110/poliklinik-antrian/internal/antrian/services"
	"github.com/c14220110/poliklinik-antrian/internal/common/middlewares"
	manajemenControllers "github.com/c14220110/poliklinik-antrian/internal/manajemen/controllers"
	manajemenServices "github.com/c14220110/poliklinik-antrian/internal/manajemen/services"
	"github.com/c14220110/poliklinik-antrian/pkg/events"
	"github.com/c14220110/poliklinik-antrian/ws"
)

type Deps struct {
	DB        *sql.DB
	Config    *config.Config
	Location  *time.Location
	Hub       *ws.Hub
	Publisher events.Publisher
	Logger    zerolog.Logger
}

// Init menginisialisasi semua routes menggunakan Echo framework
func Init(e *echo.Echo, d Deps) {
	cfg := d.Config

	// Inisialisasi service
	store := antrianServices.NewMySQLStore(d.DB)
	tiketService := antrianServices.NewTiketService(store, antrianServices.TiketConfig{
		Prefix:          cfg.QueuePrefix,
		DefaultMaxQuota: cfg.DefaultMaxQuota,
		CacheSize:       cfg.CacheSize,
		Location:        d.Location,
	}, d.Logger)
	loketService := antrianServices.NewLoketService(store, d.Location, d.Logger)
	adminService := adminServices.NewAdministrasiService(d.DB, cfg.JWTSecret, cfg.JWTTTL)
	pendaftaranService := adminServices.NewPendaftaranService(d.DB, d.Location)
	poliklinikService := adminServices.NewPoliklinikService(d.DB)
	manajemenService := manajemenServices.NewManajemenService(d.DB)

	// Inisialisasi controller dengan service yang sesuai
	adminController := adminControllers.NewAdministrasiController(adminService)
	pasienController := adminControllers.NewPasienController(pendaftaranService, tiketService, d.Publisher, d.Logger)
	poliklinikController := adminControllers.NewPoliklinikController(poliklinikService)
	notifikasiController := adminControllers.NewNotifikasiController(d.Publisher)
	tiketController := antrianControllers.NewTiketController(tiketService, d.Publisher, d.Logger)
	loketController := antrianControllers.NewLoketController(loketService, d.Publisher, d.Logger)
	manajemenController := manajemenControllers.NewManajemenController(manajemenService, tiketService, d.Logger)

	e.GET("/health", func(c echo.Context) error {
		if err := d.DB.PingContext(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "db unavailable"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/ws", ws.ServeWS(d.Hub))

	// Grup API utama
	api := e.Group("/api")
	api.POST("/auth/login", adminController.Login) // Tidak pakai JWT

	auth := api.Group("", middlewares.JWTMiddleware(cfg.JWTSecret))
	pendaftaran := middlewares.RequireRole(middlewares.RolePendaftaran)
	loket := middlewares.RequireRole(middlewares.RoleLoket)
	admin := middlewares.RequireRole()

	// **Grup Karyawan**
	auth.POST("/karyawan", adminController.CreateKaryawan, admin)

	// **Data referensi**
	auth.GET("/poliklinik", poliklinikController.GetPoliklinikList)
	auth.GET("/dokter", poliklinikController.GetDokterList)
	auth.GET("/counters", poliklinikController.GetLoketList)

	// **Data master (admin)**
	auth.POST("/poliklinik", manajemenController.AddPoliklinik, admin)
	auth.PUT("/poliklinik/:id", manajemenController.UpdatePoliklinik, admin)
	auth.PUT("/poliklinik/:id/status", manajemenController.SetPoliklinikStatus, admin)
	auth.POST("/dokter", manajemenController.AddDokter, admin)
	auth.POST("/counters", manajemenController.AddLoket, admin)
	auth.PUT("/counters/:id/status", manajemenController.SetLoketStatus, admin)

	// **Grup Pasien**
	auth.GET("/pasien", pasienController.GetPasien, pendaftaran)
	auth.POST("/pasien", pasienController.CreatePasien, pendaftaran)
	auth.POST("/pasien/register", pasienController.RegisterPasien, pendaftaran)

	// **Tiket & kuota**
	auth.POST("/queue/ticket", tiketController.TerbitkanTiket, pendaftaran)
	auth.GET("/kuota", tiketController.DaftarKuota)
	auth.PUT("/kuota", tiketController.AturKuota, admin)

	// **Grup Loket**
	queues := auth.Group("/queues")
	queues.POST("/call", loketController.PanggilBerikutnya, loket)
	queues.POST("/complete", loketController.Selesaikan, loket)
	queues.POST("/skip", loketController.Lewati, loket)
	queues.POST("/recall-skipped", loketController.PanggilUlangTerlewat, loket)
	queues.GET("/waiting", loketController.DaftarMenunggu)
	queues.GET("/skipped", loketController.DaftarTerlewat)
	queues.GET("/active", loketController.TiketAktif)
	queues.GET("/board", loketController.Papan)

	// **Notifikasi farmasi**
	auth.POST("/notifikasi/resep", notifikasiController.NotifikasiResep, middlewares.RequireRole(middlewares.RoleFarmasi))
}
