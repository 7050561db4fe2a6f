package common

// Network is the Sui network the gateway submits mints against.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

func (n Network) String() string {
	return string(n)
}

func (n Network) IsSupported() bool {
	switch n {
	case NetworkMainnet, NetworkTestnet:
		return true
	}
	return false
}
