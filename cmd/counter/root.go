package counter

import (
	cmdUtil "github.com/ValentinKolb/dCount/cmd/util"
	"github.com/ValentinKolb/dCount/lib/clientcfg"
	"github.com/ValentinKolb/dCount/lib/counter"
	"github.com/ValentinKolb/dCount/rpc/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	rpcCounter counter.IAtomicCounter

	// CounterCommands represents the counter command group
	CounterCommands = &cobra.Command{
		Use:               "counter",
		Short:             "Perform atomic counter operations",
		PersistentPreRunE: setupCounterClient,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(cmdUtil.InitClientConfig)

	// Add common RPC flags to the counter command
	cmdUtil.SetupRPCClientFlags(CounterCommands)

	// Default group for counter operations
	CounterCommands.PersistentFlags().Int("shard", 100, cmdUtil.WrapString("ID of the counter group to connect to"))

	// When set, the connection settings are taken from a failover config file
	// instead of the flat transport flags
	CounterCommands.PersistentFlags().Bool("failover", false, cmdUtil.WrapString("Connect via a failover configuration file (see DCOUNT_FAILOVER_CONFIG / DCOUNT_CLIENT_CONFIG) instead of the transport flags"))

	// Add subcommands
	CounterCommands.AddCommand(getCmd)
	CounterCommands.AddCommand(addCmd)
	CounterCommands.AddCommand(getAddCmd)
	CounterCommands.AddCommand(setCmd)
	CounterCommands.AddCommand(casCmd)
	CounterCommands.AddCommand(destroyCmd)
	CounterCommands.AddCommand(perfTestCmd)
}

// setupCounterClient initializes the RPC counter client
func setupCounterClient(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := cmdUtil.BindCommandFlags(cmd); err != nil {
		return err
	}

	shardId := cmdUtil.GetShardID()

	// Failover mode: resolve the cluster chain from configuration files
	if viper.GetBool("failover") {
		resolved, err := clientcfg.ResolveFailover(nil)
		if err != nil {
			return err
		}

		rpcCounter, err = client.NewFailoverCounter(shardId, resolved)
		return err
	}

	// Get client configuration components
	config := cmdUtil.GetClientConfig()

	// Get serializer and transport
	s, err := cmdUtil.GetSerializer()
	if err != nil {
		return err
	}

	t, err := cmdUtil.GetTransport()
	if err != nil {
		return err
	}

	// Create the counter client
	rpcCounter, err = client.NewRPCCounter(
		shardId,
		*config,
		t,
		s,
	)

	return err
}
