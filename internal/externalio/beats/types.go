package beats

import (
	lumberjack "github.com/elastic/go-lumber/client/v2"
)

// Ships decoded events to a Logstash/Beats endpoint over the lumberjack v2 protocol
type OutModule struct {
	endpoint string
	sink     *lumberjack.SyncClient
}
