package config

type KafkaConfig struct {
	Brokers         []string `mapstructure:"brokers" json:"brokers" yaml:"brokers"`
	Topics          Topics   `mapstructure:"topics" json:"topics" yaml:"topics"`
	ConsumerGroupID string   `mapstructure:"consumer_group_id" json:"consumer_group_id" yaml:"consumer_group_id"`
}

type Topics struct {
	WallPostCreated string `mapstructure:"wallPostCreated" yaml:"wallPostCreated"` //  帖子发布主题 (下游搜索/通知服务消费)
	WallPostDeleted string `mapstructure:"wallPostDeleted" yaml:"wallPostDeleted"` //  帖子删除主题
	UserDeleted     string `mapstructure:"userDeleted" yaml:"userDeleted"`         //  用户注销主题 (由用户服务生产，本服务消费后清理其内容)
}
