package profiles

import (
	"fmt"

	"hlsgraph/internal/encoding"
)

var conversionFlags = []string{
	"--allocas_to_mem_elems", "--remove_sexts", "--remove_single_target_branches", "--drop_func_call_proc",
}

// Resolved is a profile turned into a compiler invocation and an encoder list
type Resolved struct {
	Profile  Profile
	Binary   string
	Flags    []string
	Encoders []encoding.Encoder
}

// NodeWidth is the width of a node feature row
func (r *Resolved) NodeWidth() int {
	return encoding.Width(r.Encoders, encoding.Node)
}

// EdgeWidth is the width of an edge feature row, direction columns included
func (r *Resolved) EdgeWidth() int {
	return encoding.Width(r.Encoders, encoding.Edge)
}

// Resolve builds the flag and encoder lists of p. The encoder order defines
// the feature column order.
func Resolve(p Profile, binary string) (*Resolved, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	r := &Resolved{Profile: p, Binary: binary, Flags: []string{"--hide_values"}}
	add := func(e encoding.Encoder) { r.Encoders = append(r.Encoders, e) }
	flag := func(flags ...string) { r.Flags = append(r.Flags, flags...) }

	add(encoding.NewOneHot("datasetIndex", encoding.Node, encoding.RangeTags(datasetIndexTags)...))
	add(encoding.NewOneHot("graphType", encoding.Node, graphTypes...))

	if p.ProxyPrograml {
		flag("--proxy_programl")
	}
	if p.InlineOnGraph {
		flag("--inline_functions")
	}
	if p.EncodeNodeType {
		flag("--add_node_type")
		add(encoding.NewOneHot("nodeType", encoding.Node, nodeTypes...))
	}

	// basic block ids are always needed for the CFG
	flag("--add_bb_id")
	if p.EncodeBBID {
		add(encoding.NewOneHot("bbID", encoding.Node, encoding.RangeTags(200)...))
	}
	if p.EncodeFuncID {
		add(encoding.NewOneHot("funcID", encoding.Node, encoding.RangeTags(20)...))
		flag("--add_func_id")
	}
	if p.EncodeEdgeOrder {
		flag("--add_edge_order")
		add(encoding.NewOneHot("edgeOrder", encoding.Edge, encoding.RangeTags(20)...))
	}

	var keyText, flowTags []string
	if p.ConvertAllocas {
		flag(conversionFlags...)
		keyText = append(keyText, convertedNodes...)
		flowTags = append(flowTags, convertedEdges...)
	} else {
		keyText = append(keyText, baselineNodes...)
		flowTags = append(flowTags, baselineEdges...)
	}

	if p.OneHotTypes {
		if p.AbsorbTypes {
			add(typeEncoder(p))
			flag("--absorb_types", "--one_hot_types")
		} else {
			keyText = append(keyText, typeNodes...)
			keyText = append(keyText, floatType(p))
			flag("--one_hot_types")
		}
	} else {
		flag("--absorb_types")
		add(encoding.NewOneHot("datatype", encoding.Node, dataTypeClasses...))
		add(encoding.NewLinear("bitwidth", encoding.Node, 64))
		add(encoding.NewLog("totalArrayWidth", encoding.Node, 160000, 0.9))
		for i := 0; i < 5; i++ {
			add(encoding.NewLog(fmt.Sprintf("arrayWidth%d", i), encoding.Node, 16000, 0.9))
		}
	}

	if p.AbsorbPragmas {
		flag("--absorb_pragmas")
		add(encoding.NewOneHot("partition1", encoding.Node, partitionTypes...))
		add(encoding.NewOneHot("partition2", encoding.Node, partitionTypes...))
		add(encoding.NewOneHot("inlined", encoding.Node, binaryTags...))
		add(encoding.NewLog("partitionFactor1", encoding.Node, 512, 2))
		add(encoding.NewLog("partitionFactor2", encoding.Node, 512, 2))
		add(encoding.NewOneHot("pipelined", encoding.Node, binaryTags...))
		add(encoding.NewOneHot("resourceType", encoding.Node, resourceTypes...))
		add(encoding.NewLog("fullUnrollFactor", encoding.Node, 512, 2))
		for i := 1; i <= 3; i++ {
			add(encoding.NewLinear(fmt.Sprintf("unrollFactor%d", i), encoding.Node, 512))
		}
		add(encoding.NewOneHot("previouslyPipelined", encoding.Node, binaryTags...))
		add(encoding.NewLog("tile", encoding.Node, 512, 2))
		add(encoding.NewOneHot("pipelinedType", encoding.Node, pipelinedTypes...))
		if p.PipelinedUnroll {
			flag("--add_unroll_from_pipeline")
		}
	} else {
		add(encoding.NewLinear("numeric", encoding.Node, 256))
		keyText = append(keyText, pragmaNodes...)
		flowTags = append(flowTags, pragmaFlow)
	}

	if p.IgnoreControlFlow {
		flag("--ignore_control_flow", "--ignore_call_edges")
	} else {
		add(encoding.NewOneHot("flowType", encoding.Edge, flowTags...))
	}
	if p.MemoryOnlyControlFlow {
		flag("--only_memory_control_flow")
	}
	if p.AddNumCalls {
		flag("--add_num_calls")
		add(encoding.NewLog("numCalls", encoding.Node, 512, 2))
		add(encoding.NewLinear("numCallSites", encoding.Node, 8))
	}
	if p.ReduceIteratorBitwidths {
		flag("--reduce_iterator_bitwidth")
	}
	if p.EncodeTripcount {
		add(encoding.NewLog("tripcount", encoding.Node, 400*400, 10))
	}

	add(encoding.NewOneHot("keyText", encoding.Node, keyText...))
	return r, nil
}

func floatType(p Profile) string {
	if p.ProxyPrograml {
		return doubleType
	}
	return f64Type
}

func typeEncoder(p Profile) encoding.Encoder {
	tags := append([]string{}, typeNodes...)
	tags = append(tags, "NA", floatType(p))
	if p.ReduceIteratorBitwidths {
		for i := 0; i < 13; i++ {
			tags = append(tags, fmt.Sprintf("i%d", i))
		}
	}
	return encoding.NewOneHot("datatype", encoding.Node, tags...)
}
