package config

// RedisConfig 包含 Redis 连接相关的配置
type RedisConfig struct {
	Address  string `mapstructure:"address" json:"address" yaml:"address"`    // host:port
	Password string `mapstructure:"password" json:"password" yaml:"password"` // 未启用认证时留空
	DB       int    `mapstructure:"db" json:"db" yaml:"db"`                   // 逻辑库编号
	PoolSize int    `mapstructure:"poolSize" json:"poolSize" yaml:"poolSize"` // 连接池大小，0 表示使用客户端默认值
}

// CounterAuditConfig 包含计数器审计任务相关的配置
type CounterAuditConfig struct {
	// BatchSize 是单个数据库重算批次覆盖的帖子数量。
	// 审计任务按主键区间分页扫描 posts 表，每个批次通过一条带相关子查询的
	// UPDATE 语句将 likes_count / comments_count 重算为源数据行的真实基数。
	// 这个参数主要影响单条 UPDATE 语句锁定的行数与执行时长。
	BatchSize int `mapstructure:"batchSize" json:"batchSize" yaml:"batchSize"`

	// ConcurrencyLevel 是并发执行重算批次的 worker (goroutine) 数量。
	// 例如 2000 个帖子、BatchSize=500 会产生 4 个批次；ConcurrencyLevel=2
	// 时由 2 个 worker 并行消费这些批次。
	// 这个参数主要影响审计期间同时占用的数据库连接数。
	ConcurrencyLevel int `mapstructure:"concurrencyLevel" json:"concurrencyLevel" yaml:"concurrencyLevel"`
}
