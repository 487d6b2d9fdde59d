package cli_test

import (
	"testing"

	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/instanotion/pkg/cli"
)

func TestGetIndexConfig(t *testing.T) {
	cfg := cli.GetIndexConfig("")
	gt.Array(t, cfg.Collections).Length(1).Required()
	gt.Value(t, cfg.Collections[0].Name).Equal("credentials")
	gt.Array(t, cfg.Collections[0].Indexes).Length(1).Required()

	fields := cfg.Collections[0].Indexes[0].Fields
	gt.Array(t, fields).Length(2).Required()
	gt.Value(t, fields[0].Path).Equal("workspace_id")
	gt.Value(t, fields[0].Order).Equal(fireconf.OrderAscending)
	gt.Value(t, fields[1].Path).Equal("updated_at")
	gt.Value(t, fields[1].Order).Equal(fireconf.OrderDescending)

	gt.Value(t, cli.GetIndexConfig("staging").Collections[0].Name).Equal("staging_credentials")
}
