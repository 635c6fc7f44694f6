package cache

import "fmt"

// 缓存 key 规则
// 购物车按用户缓存，订单与商品按 ID 缓存。缓存只做读加速，写路径永远以数据库为准。

// CartKey 用户购物车缓存 key
func CartKey(userID uint) string {
	return fmt.Sprintf("cart:customer:%d", userID)
}

// OrderKey 订单缓存 key
func OrderKey(orderID uint) string {
	return fmt.Sprintf("order:%d", orderID)
}

// ProductKey 商品缓存 key
func ProductKey(productID uint) string {
	return fmt.Sprintf("product:%d", productID)
}
