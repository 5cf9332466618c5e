package profiles

// Vocabularies of the one-hot encoders. They mirror the node and edge labels
// the graph compiler prints in each mode.

var baselineNodes = []string{
	"[external]", "alloca", "store", "load", "icmp", "br", "getelementptr", "sub", "mul", "add",
	"fsub", "fmul", "fadd", "sext", "ret", "bitcast", "truncate", "call", "div", "sitofp",
	";undefinedfunction", "fcmp", "zext", "trunc", "ashr", "and", "or", "xor", "shl", "fdiv",
	"phi", "fneg", "mod",
}

var pragmaNodes = []string{
	"resourceAllocation_bram2p", "resourceAllocation_bram1p", "cyclicArrayPartition1",
	"cyclicArrayPartition2", "blockArrayPartition1", "blockArrayPartition2",
	"completeArrayPartition1", "completeArrayPartition2", "unroll", "pipeline", "inlinedFunction",
}

var typeNodes = []string{
	"f32", "i64", "i32", "i1", "i8", "::prob_t[140][64]", "::prob_t[140]", "::int32_t[2048]",
	"::uint8_t[32]", "const::uint8_t[256]", "double[64]", "int[8]", "double[3]", "double[192]",
	"double[4096]", "double[832]", "void", "float[64][64]", "float[64]", "double[8]",
	"::node_t[256]", "::edge_t[4096]", "::level_t[256]", "::edge_index_t[10]", "int[2048]",
	"int[128]", "double[1024]", "double[512]", "double[256]", "::int32_t[4096]", "double[13]",
	"::int32_t[2]", "double[4940]", "::int32_t[16384]", "::int32_t[4940]", "double[494]",
	"int[4096]", "::tok_t[140]", "::uint8_t*", "::prob_t[64]", "::aes256_context*",
	"::uint8_t[16]", "::int32_t[8192]", "::int32_t[9]", "double[2119]", "double[489]",
	"::prob_t[4096]", "::state_t[140]", "double[40][50]", "double[40][60]", "double[60][50]",
	"double[50][70]", "double[50][80]", "double[80][70]", "double[40][70]", "double[70][50]",
	"double[60][60]", "double[40][80]", "unsignedchar[32]", "unsignedchar[16]",
	"constunsignedchar[256]", "double[390][410]", "double[124][116]", "double[410][390]",
	"double[100][80]", "double[410]", "double[116]", "double[390]", "double[80][80]",
	"double[25][20][30]", "double[124]", "double[80]", "double[30][30]", "double[30]",
	"double[60][70]", "double[120][120]", "double[400][400]", "double[90][90]",
	"double[250][250]", "double[20][20][20]", "double[120]", "double[60][80]", "double[400]",
	"double[90]", "double[250]", "char[128]", "double[1666]", "int[4940]", "char[256]",
	"int[1666]", "int[8192]", "long[39304]", "double[200][240]", "double[80][60]", "int[16641]",
	"int[495]", "int[9]", "long[32768]", "double[200][200]", "char[16641]", "double[116][124]",
	"double[40]",
}

var baselineEdges = []string{"dataflow", "call", "control"}

var convertedNodes = []string{
	"[external]", "ret", "externalArray", "externalScalar", "localScalar", "localArray",
	"globalArray", "arrayParameter", "store", "load", "cmp", "br", "sub", "mul", "getelementptr",
	"add", "specifyAddress", "div", "call", "sitofp", "cos", "sin", "ashr", "and", "or", "xor",
	"shl", "phi", "fneg", "exp", "sqrt", "pow", "buffer_fill", "buffer_empty", "direct_read",
	"direct_write", "mod", "read_from_stream", "write_to_stream",
}

var convertedEdges = []string{"dataflow", "control", "call", "address"}

var (
	nodeTypes        = []string{"instruction", "pragma", "variable", "constant"}
	dataTypeClasses  = []string{"int", "float", "NA", "void", "struct"}
	partitionTypes   = []string{"none", "cyclic", "block", "complete"}
	resourceTypes    = []string{"none", "bram_2P", "bram_1P"}
	binaryTags       = []string{"0", "1"}
	pipelinedTypes   = []string{"0", "1", "2"}
	graphTypes       = []string{"0", "1"}
	pragmaFlow       = "pragma"
	doubleType       = "double"
	f64Type          = "f64"
	datasetIndexTags = 11
)
