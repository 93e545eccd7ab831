package app

import (
	"github.com/blockflow/blockflow/internal/registry"
	"github.com/blockflow/blockflow/modules/engineblocks"
	"github.com/blockflow/blockflow/modules/kvblocks"
	"github.com/blockflow/blockflow/modules/listblocks"
	"github.com/blockflow/blockflow/modules/mathblocks"
	"github.com/blockflow/blockflow/modules/mediablocks"
	"github.com/blockflow/blockflow/modules/queueblocks"
	"github.com/blockflow/blockflow/modules/stringblocks"
	"github.com/blockflow/blockflow/modules/webblocks"
)

// coreProviders is the definitive list of block providers compiled into the
// blockflow binary.
var coreProviders = []registry.Provider{
	mathblocks.New(),
	stringblocks.New(),
	listblocks.New(),
	kvblocks.New(),
	engineblocks.New(),
	mediablocks.New(),
	queueblocks.New(),
	webblocks.New(),
}
