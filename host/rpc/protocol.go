package rpc

import (
	"github.com/cockroachdb/errors"
	"github.com/viant/houlog/geo"
	"github.com/viant/houlog/host"
	"go.lsp.dev/jsonrpc2"
)

// Method names.
const (
	MethodNodeByPath   = "node.byPath"
	MethodCreateNode   = "node.create"
	MethodDeleteNode   = "node.delete"
	MethodCookNode     = "node.cook"
	MethodSetPartInfo  = "geo.setPartInfo"
	MethodAddAttribute = "geo.addAttribute"
	MethodSetFloats    = "geo.setFloats"
	MethodSetStrings   = "geo.setStrings"
	MethodCommit       = "geo.commit"
	MethodSave         = "geo.save"
)

// codeSentinelBase is the first application error code; host.Sentinels[i]
// travels as codeSentinelBase - i.
const codeSentinelBase jsonrpc2.Code = -32001

type nodeByPathParams struct {
	Path   string      `json:"path"`
	Parent host.NodeID `json:"parent"`
}

type nodeParams struct {
	Node host.NodeID `json:"node"`
}

type nodeResult struct {
	Node host.NodeID `json:"node"`
}

type partInfoParams struct {
	Node host.NodeID  `json:"node"`
	Part geo.PartInfo `json:"part"`
}

type attributeParams struct {
	Node host.NodeID       `json:"node"`
	Info geo.AttributeInfo `json:"info"`
}

// floatsParams carries float values as a float32 BLOB so non-finite values
// survive the JSON encoding.
type floatsParams struct {
	Node host.NodeID `json:"node"`
	Name string      `json:"name"`
	Data []byte      `json:"data"`
}

type stringsParams struct {
	Node   host.NodeID `json:"node"`
	Name   string      `json:"name"`
	Values []string    `json:"values"`
}

type saveParams struct {
	Node host.NodeID `json:"node"`
	Path string      `json:"path"`
}

func toWireError(err error) error {
	if err == nil {
		return nil
	}
	var werr *jsonrpc2.Error
	if errors.As(err, &werr) {
		return werr
	}
	for i, sentinel := range host.Sentinels {
		if errors.Is(err, sentinel) {
			return jsonrpc2.NewError(codeSentinelBase-jsonrpc2.Code(i), err.Error())
		}
	}
	return jsonrpc2.NewError(jsonrpc2.InternalError, err.Error())
}

func fromWireError(method string, err error) error {
	if err == nil {
		return nil
	}
	var werr *jsonrpc2.Error
	if errors.As(err, &werr) {
		idx := int(codeSentinelBase - werr.Code)
		if idx >= 0 && idx < len(host.Sentinels) {
			return errors.Mark(errors.Newf("rpc: %s: %s", method, werr.Message), host.Sentinels[idx])
		}
		return errors.Newf("rpc: %s: remote error %d: %s", method, werr.Code, werr.Message)
	}
	return errors.Wrapf(err, "rpc: %s", method)
}
