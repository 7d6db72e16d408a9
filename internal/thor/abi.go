package thor

import (
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/pkg/errors"
)

// parsedABI caches a parsed contract ABI for repeated packing/unpacking
type parsedABI struct {
	abi abi.ABI
}

// parseABI parses and caches an ABI JSON document
func (c *client) parseABI(abiJSON string) (*parsedABI, error) {
	c.abiMu.Lock()
	defer c.abiMu.Unlock()

	if cached, ok := c.abiCache[abiJSON]; ok {
		return cached, nil
	}

	parsed, err := abi.JSON(strings.NewReader(abiJSON))
	if err != nil {
		return nil, errors.Wrap(err, "failed to parse contract ABI")
	}

	entry := &parsedABI{abi: parsed}
	c.abiCache[abiJSON] = entry

	return entry, nil
}

// pack encodes a method call with its arguments
func (p *parsedABI) pack(method string, args ...interface{}) ([]byte, error) {
	data, err := p.abi.Pack(method, args...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to pack %s call", method)
	}

	return data, nil
}

// unpack decodes the outputs of a method call
func (p *parsedABI) unpack(method string, data []byte) ([]interface{}, error) {
	values, err := p.abi.Unpack(method, data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to unpack %s output", method)
	}

	return values, nil
}
