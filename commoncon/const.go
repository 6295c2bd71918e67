package commoncon

//合约模板名称
const FeeCollectorTemplate = "FeeCollector"
const CrowdFundTemplate = "CrowdFund"

//部署完成后向操作者输出的格式
const DeployedFormat = "%s contract Address : %s\n"

//账本存储 key
const HeadKey = "head"
const BlockKeyPrefix = "block:"
const ReceiptKeyPrefix = "receipt:"
const InstanceKeyPrefix = "instance:"
const AccountKeyPrefix = "account:"

//存储后端
const BackendLevelDB = "leveldb"
const BackendRedis = "redis"
