package provider

import (
	"time"

	"github.com/shoply-api/internal/authz"
	"github.com/shoply-api/internal/cache"
	"github.com/shoply-api/internal/config"
	"github.com/shoply-api/internal/logger"
	"github.com/shoply-api/internal/models"
	"github.com/shoply-api/internal/queue"
	"github.com/shoply-api/internal/repository"
	"github.com/shoply-api/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo     repository.AdminRepository
	UserRepo      repository.UserRepository
	CategoryRepo  repository.CategoryRepository
	DiscountRepo  repository.DiscountRepository
	ProductRepo   repository.ProductRepository
	InventoryRepo repository.InventoryRepository
	CartRepo      repository.CartRepository
	OrderRepo     repository.OrderRepository

	// Services
	AuthzService    *authz.Service
	AuthService     *service.AuthService
	UserService     *service.UserService
	ProductService  *service.ProductService
	CategoryService *service.CategoryService
	DiscountService *service.DiscountService
	CartService     *service.CartService
	OrderService    *service.OrderService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.CategoryRepo = repository.NewCategoryRepository(db)
	c.DiscountRepo = repository.NewDiscountRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.InventoryRepo = repository.NewInventoryRepository(db)
	c.CartRepo = repository.NewCartRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	cartTTL := time.Duration(c.Config.Cart.TTLSeconds) * time.Second

	c.AuthService = service.NewAuthService(c.AdminRepo, c.Config.JWT.SecretKey, c.Config.JWT.ExpireHours)
	c.UserService = service.NewUserService(c.UserRepo, c.Config.UserJWT.SecretKey, c.Config.UserJWT.ExpireHours)
	c.ProductService = service.NewProductService(c.ProductRepo, c.CategoryRepo, c.DiscountRepo, c.InventoryRepo)
	c.CategoryService = service.NewCategoryService(c.CategoryRepo)
	c.DiscountService = service.NewDiscountService(c.DiscountRepo)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.QueueClient, cartTTL)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.CartRepo, c.InventoryRepo, c.QueueClient)
}
